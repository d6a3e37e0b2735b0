package game

// DefaultTickRate is the number of frames per second.
const DefaultTickRate = 60

// SecsToTicks converts a duration in seconds to frames at rate frames per
// second. Any positive duration lasts at least one frame.
func SecsToTicks(s float64, rate int) uint64 {
	if s <= 0 {
		return 0
	}
	t := uint64(s * float64(rate))
	if t < 1 {
		t = 1
	}
	return t
}
