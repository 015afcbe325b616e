package grove

// ArgumentError represents an error on the arguments given to grow a tree.
type ArgumentError string

// ErrEmptyDataset is returned when trying to grow a tree from no samples.
const ErrEmptyDataset = ArgumentError("cannot grow a tree from an empty dataset")

func (ae ArgumentError) Error() string {
	return string(ae)
}
