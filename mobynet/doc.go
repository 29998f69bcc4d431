/*
Package mobynet finds the network namespace of a Docker container, so that
scans can probe from the perspective of that container instead of the host.
*/
package mobynet
