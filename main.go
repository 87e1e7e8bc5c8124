package main

import "chat-group-service/config"

func main() {
	config.RunServer()
}
