package compress

// NoOp is the identity codec returned by Get(KindNone). The block encoder
// does not call it: a payload below the compression threshold, or one that
// did not shrink enough, is stored raw directly.
type NoOp struct{}

var _ Codec = NoOp{}

func (NoOp) Compress(data []byte) ([]byte, error) { return data, nil }

func (NoOp) Decompress(data []byte, _ int) ([]byte, error) { return data, nil }
