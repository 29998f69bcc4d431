/*
Package stats reports the progress of worker pools on a live-updating
terminal line.

Probing progress is rendered together with the throughput:

	Pinged 123456 ips in 0:01:05; 1899 ips/sec; 113975 ips/min; 6838553 ips/hour

Tile loading and saving as well as rendering are rendered as progress
against their totals:

	Saved 12/64 tiles; 0:00:07 elapsed
*/
package stats
