package main

import "wikitrail/trail/cmd"

func main() {
	cmd.Execute()
}
