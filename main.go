// ./main.go
package main

import (
	"github.com/redspotinnovations/browsertime/cmd"
)

func main() {
	cmd.Execute()
}
