// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/Headline/wandbox/cmd/wandbox"

func main() {
	cmd.Execute()
}
