package layout

import (
	"strings"
	"unicode/utf8"
)

// WrapLine 以贪心方式按空格把一行文本折成不超过 maxWidth 个字符的多行。
// 单个超长单词不会被拆开，而是独占一行。用单个空格重新拼接结果即可还原输入。
func WrapLine(line string, maxWidth int) []string {
	if utf8.RuneCountInString(line) <= maxWidth {
		return []string{line}
	}
	var lines []string
	words := strings.Split(line, " ")
	for len(words) > 0 {
		rest := strings.Join(words, " ")
		if utf8.RuneCountInString(rest) <= maxWidth {
			lines = append(lines, rest)
			break
		}
		// used 与原算法一致：每个已放入的单词计入其后的一个空格
		used, n := 0, 0
		for n < len(words) {
			w := utf8.RuneCountInString(words[n])
			if used+w+1 >= maxWidth && n > 0 {
				break
			}
			used += w + 1
			n++
			if used >= maxWidth {
				break
			}
		}
		lines = append(lines, strings.Join(words[:n], " "))
		words = words[n:]
	}
	return lines
}
