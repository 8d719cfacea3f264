// Copyright 2026 The Flotilla Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/flotilla/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
