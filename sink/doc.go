/*
Package sink accumulates the outcomes of scan cycles and hands them on: the
results get rendered into pixels, and the covered addresses get merged with
the coverage of earlier cycles so they can be persisted.

A [Sink] is fed after the probing workers have joined, so it never sees
concurrent collection. Rendering then uses its own pool of workers, sized
independently of the probing workers.
*/
package sink
