package main

import (
	market "github.com/taskport/worker-match-system/cmd/market"
)

func main() {
	market.Run()
}
