// Package segment splits raw tool output into the blocks the record
// builders work on. It only looks at blank lines and line prefixes; no
// line content is interpreted here.
package segment

import "strings"

// Lines splits text on newlines, dropping carriage returns.
func Lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// IOStat holds the sections found in one iostat report. A nil slice means
// the section was not emitted.
type IOStat struct {
	// Header is the first line, the kernel banner candidate.
	Header string
	// CPU is the avg-cpu header followed by its value line. A header with
	// no following line yields a one-element slice.
	CPU []string
	// Devices is the Device header followed by its rows.
	Devices []string
}

// SplitIOStat locates the banner, the CPU block and the device table.
// When a section repeats, as with interval reports, the last one wins.
func SplitIOStat(text string) IOStat {
	var out IOStat

	lines := Lines(text)
	if len(lines) == 0 || (len(lines) == 1 && isBlank(lines[0])) {
		return out
	}

	out.Header = lines[0]

	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		switch {
		case strings.HasPrefix(line, "avg-cpu"):
			if i+1 < len(lines) {
				out.CPU = []string{line, lines[i+1]}
				i++
			} else {
				out.CPU = []string{line}
			}

		case strings.HasPrefix(line, "Device"):
			block := []string{line}
			for i+1 < len(lines) && !isBlank(lines[i+1]) {
				i++
				block = append(block, lines[i])
			}
			out.Devices = block
		}
	}

	return out
}

// Block is one chip section of lm-sensors output.
type Block struct {
	// Line is the 1-based line number of the first line in the input.
	Line  int
	Lines []string
}

// SplitSensors splits sensors output into chip blocks on blank lines.
// Leading and trailing blank lines are ignored and blank-only runs never
// produce empty blocks.
func SplitSensors(text string) []Block {
	var (
		blocks  []Block
		current *Block
	)

	for i, line := range Lines(text) {
		if isBlank(line) {
			if current != nil {
				blocks = append(blocks, *current)
				current = nil
			}
			continue
		}

		if current == nil {
			current = &Block{Line: i + 1}
		}
		current.Lines = append(current.Lines, strings.TrimRight(line, " \t"))
	}

	if current != nil {
		blocks = append(blocks, *current)
	}

	return blocks
}
