// assets-exporter reads asset objects from an Atlassian Assets workspace and either
// exports them as a csv file or fills in a word document template for one of them.
//
// Usage:
//
//	# export all PiB objects to PiB_project_cleanup_LMS.csv
//	assets-exporter export
//
//	# run a named export job from a job file
//	assets-exporter export --config jobs.yaml --job vms
//
//	# fill in the vendor guide for PiB 138
//	assets-exporter document --number 138
//
// Credentials are read from ATLANTSIA_DOMAIN, ATLANTSIA_EMAIL and ATLANTSIA_API_TOKEN.
package main

import (
	"os"
)

const appName string = "assets-exporter"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
