// Package main provides the chatbridge daemon: it signs in to Microsoft
// Teams and the ChatGPT web client with remote-controlled browsers,
// pauses on CAPTCHA challenges for manual solving, and idles until a
// shutdown signal arrives.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
