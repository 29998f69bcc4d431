// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import "github.com/muesli/termenv"

var (
	reachableStyle = termenv.Style{}.Foreground(termenv.ANSIGreen)
	cancelledStyle = termenv.Style{}.Foreground(termenv.ANSIYellow)
	warningStyle   = termenv.Style{}.Foreground(termenv.ANSIRed)
)

var headingStyle = termenv.Style{}.Bold()
