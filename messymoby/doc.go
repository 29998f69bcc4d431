/*
Package messymoby helps tests that need Docker containers: it runs
throw-away containers and cleans up after them.
*/
package messymoby
