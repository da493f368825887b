// Command fakekernel inspects syscall logs recorded by fake kernels.
package main

import "github.com/sarchlab/fakekernel/fakekernel/cmd"

func main() {
	cmd.Execute()
}
