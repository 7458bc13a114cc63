package queue

// Chunk partitions ids into consecutive groups of at most size elements,
// preserving order. The last group may be shorter; empty input produces
// zero groups.
func Chunk(ids []int64, size int) [][]int64 {
	if size < 1 || len(ids) == 0 {
		return nil
	}
	batches := make([][]int64, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}
