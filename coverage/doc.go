/*
Package coverage persists the set of addresses already scanned in a small
text file, so that scans can be paused and later resumed.

The file holds one inclusive "first-last" address range per line, in
increasing address order. The literal text "None" (as well as an empty file)
means that nothing has been scanned yet:

	0.0.0.0-255.255.0.0
	0.0.1.0-255.255.1.0

Failing to read the file is never fatal: a missing, unreadable or malformed
file simply means starting from scratch, with a warning logged.
*/
package coverage
