// Package partition distributes upload tasks across workers.
package partition

// Split assigns tasks to n ordered groups by round-robin: the task at index
// i goes to group i mod n. Groups keep the input order and may be empty when
// there are fewer tasks than groups. Split is a pure function; the same
// input always produces the same partitioning. A non-positive n is treated
// as 1.
func Split(tasks []string, n int) [][]string {
	if n < 1 {
		n = 1
	}

	groups := make([][]string, n)
	for i, task := range tasks {
		groups[i%n] = append(groups[i%n], task)
	}
	return groups
}
