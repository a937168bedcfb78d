package scaler

type Option interface {
	scalerOption()
}

type OptionCommons struct{}

func (OptionCommons) scalerOption() {}

type Options []Option

func OptionLatest[T Option](s Options) (ret T, ok bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if v, ok := s[i].(T); ok {
			return v, true
		}
	}
	return
}

// OptionLayer sets the layer of the composed element.
type OptionLayer struct {
	OptionCommons
	Layer int32
}

// OptionUpdatePriority sets the priority of the composition updates.
type OptionUpdatePriority struct {
	OptionCommons
	Priority int32
}
