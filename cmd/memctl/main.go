// memctl exercises and inspects the memkit allocators from the command
// line: synthetic benchmarks, lock-free pool soak runs, and stats dumps.
package main

func main() {
	execute()
}
