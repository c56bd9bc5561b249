package main

import "github.com/defect-pipeline/batchsend/cmd"

func main() {
	cmd.Execute()
}
