// scopebar-demo runs synthetic workloads against a live scopebar display.
package main

func main() {
	Execute()
}
