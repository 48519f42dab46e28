// Copyright 2018 Rob Marissen.
// SPDX-License-Identifier: MIT

package main

func main() {
	Execute()
}
