package level

// pending returns the number of properties collected for the open element.
func (ld *Loader) pending() int {
	return len(ld.props)
}
