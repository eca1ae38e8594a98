package main

import (
	"flag"
	"strconv"

	"github.com/golang/glog"
)

// initLogging configures glog. glog registers its flags on the standard flag
// set, which cobra never parses, so the values are poked in directly.
func initLogging(logToStderr bool, verbose int) {
	if !flag.CommandLine.Parsed() {
		if err := flag.CommandLine.Parse(nil); err != nil {
			glog.Warningf("cannot initialize logging flags: %v", err)
		}
	}
	if logToStderr {
		setGlogFlag("logtostderr", "true")
	}
	if verbose > 0 {
		setGlogFlag("v", strconv.Itoa(verbose))
	}
	glog.V(2).Infof("logging initialized at level %d", verbose)
}

func setGlogFlag(name, value string) {
	if f := flag.Lookup(name); f != nil {
		if err := f.Value.Set(value); err != nil {
			glog.Warningf("cannot set -%s=%s: %v", name, value, err)
		}
	}
}
