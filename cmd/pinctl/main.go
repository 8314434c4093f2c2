package main

// Manage Pinata pins from the command line:
//   go run ./cmd/pinctl upload ./paper.pdf --name paper.pdf
//   go run ./cmd/pinctl metadata <cid>

import (
	"os"

	"docpin/internal/pinning"
	"docpin/internal/shared/config"
)

func main() {
	cfg := config.Load()
	root := newRootCmd(func() (pinning.Pinner, error) {
		return pinning.NewPinataClient(pinning.PinataOptions{
			JWT:        cfg.PinataJWT,
			APIURL:     cfg.PinataAPIURL,
			GatewayURL: cfg.PinataGatewayURL,
			Timeout:    cfg.PinataTimeout,
		})
	})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
