// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/plugload/plugload/cmd/plugload"

func main() {
	cmd.Execute()
}
