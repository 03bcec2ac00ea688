package main

import "github.com/frahmantamala/hr-payroll/cmd"

func main() {
	cmd.Execute()
}
