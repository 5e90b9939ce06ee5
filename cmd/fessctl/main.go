// fessctl is a terminal client and admin console for the songfess
// confession board. It talks to the remote board API with a cookie-based
// session, tails the live boards over WebSocket, and exposes the moderation
// surface (deletes, admin list, word blacklist, retention window).
package main

func main() {
	Execute()
}
