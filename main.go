// SPDX-License-Identifier: MPL-2.0

// Command atlasscan extracts structure and build-configuration metadata from
// a project workspace.
package main

import cmd "github.com/codeatlas/atlasscan/cmd/atlasscan"

func main() {
	cmd.Execute()
}
