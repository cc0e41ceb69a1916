// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

package main

import "github.com/digigaia/kudu-go/cmd"

func main() {
	cmd.Execute()
}
