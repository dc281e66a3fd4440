package main

import "artbook_backend/internal/app"

func main() {
	app.Run()
}
