// -- cmd/version.go --
package cmd

// Version is set at build time via ldflags, e.g.
// go build -ldflags "-X github.com/redspotinnovations/browsertime/cmd.Version=1.0.0"
var Version = "0.1"
