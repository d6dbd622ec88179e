package main

import "github.com/peerchain/peerchain/cmd/peerchain"

func main() {
	peerchain.Execute()
}
