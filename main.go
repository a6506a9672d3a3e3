// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/sketchpub/sketchpub/cmd/sketchpub"

func main() {
	cmd.Execute()
}
