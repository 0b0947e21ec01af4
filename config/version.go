package config

import (
	"fmt"
)

var (
	version = "dev"
	AppName = "Route53DDNS"
	intro   = "Keep AWS Route53 address records in sync with the host public IP."
	date    = "unknown"
)

func ShowVersion() {
	fmt.Printf("%s %s, built at %s\n%s\n", AppName, version, date, intro)
}
