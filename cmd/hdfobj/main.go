// Command hdfobj imports raw element buffers into a blob store and prints
// typed selections of them.
package main

func main() {
	execute()
}
