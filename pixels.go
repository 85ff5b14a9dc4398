package cpi

import "iter"

// PixelStream reads the samples of one captured frame. Reading a sample
// advances the hardware buffer, so the stream can be walked only once; a new
// frame needs a new capture.
type PixelStream struct {
	d    *Device
	n    int
	done bool
}

// Pixels returns the readout stream of the current frame. Calling it again
// before the next capture returns the same, possibly consumed, stream. A
// stream taken while a capture is still pending yields nothing until the
// frame is reported.
func (d *Device) Pixels() *PixelStream {

	if d.stream == nil {
		d.stream = &PixelStream{d: d}
	}

	return d.stream
}

// Next returns the next sample of the frame. ok is false once the interface
// reports the frame has been read out.
func (p *PixelStream) Next() (px uint16, ok bool) {

	if p.done {
		return 0, false
	}

	// the frame buffer is not valid until WaitFrame has seen the new frame
	if p.d.state == Triggered {
		return 0, false
	}

	if !Decode(p.d.readReg(INTERFACE_STATUS)).FrameNotDrained {
		p.done = true
		p.d.state = Idle
		p.d.log.Debugw("frame read out", "samples", p.n)
		return 0, false
	}

	p.d.state = Draining
	px = p.d.readReg16Bit(PIXEL)
	p.n++

	return px, true
}

// All returns an iterator over the remaining samples
func (p *PixelStream) All() iter.Seq[uint16] {
	return func(yield func(uint16) bool) {
		for {
			px, ok := p.Next()

			if !ok || !yield(px) {
				return
			}
		}
	}
}

// Drain reads and discards the remaining samples, returning how many were read
func (p *PixelStream) Drain() int {

	start := p.n

	for {
		if _, ok := p.Next(); !ok {
			return p.n - start
		}
	}
}

// Count returns the number of samples read so far
func (p *PixelStream) Count() int {
	return p.n
}

// Done reports whether the frame has been fully read out
func (p *PixelStream) Done() bool {
	return p.done
}
