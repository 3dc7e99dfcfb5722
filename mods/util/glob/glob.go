package glob

import "errors"

var ErrBadPattern = errors.New("syntax error in pattern")

// Match reports whether str matches the shell-like pattern.
//
//	'*'         any sequence of characters, including none
//	'?'         any single character
//	'[' chars ']' a character class, '^' or '!' negates it, 'a-z' is a range
//	'\\' c      matches character c
//
// Unlike path.Match, '*' also matches '/' and '.'.
func Match(pattern, str string) (matched bool, err error) {
	return wildcardMatch([]rune(pattern), []rune(str))
}

// IsGlob returns true when the pattern is a valid glob
func IsGlob(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '[', '*', '?':
			_, err := Match(pattern, "whatever")
			return err == nil
		}
	}
	return false
}

func wildcardMatch(pattern, str []rune) (bool, error) {
	// position to resume from when a later '*' has to consume more
	starP, starS := -1, 0
	p, s := 0, 0
	for s < len(str) {
		if p < len(pattern) {
			switch pattern[p] {
			case '*':
				starP, starS = p, s
				p++
				continue
			case '?':
				p++
				s++
				continue
			case '[':
				ok, next, err := matchClass(pattern, p, str[s])
				if err != nil {
					return false, err
				}
				if ok {
					p = next
					s++
					continue
				}
			case '\\':
				if p+1 >= len(pattern) {
					return false, ErrBadPattern
				}
				if pattern[p+1] == str[s] {
					p += 2
					s++
					continue
				}
			default:
				if pattern[p] == str[s] {
					p++
					s++
					continue
				}
			}
		}
		if starP < 0 {
			return false, validate(pattern, p)
		}
		starS++
		p, s = starP+1, starS
	}
	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	if p < len(pattern) {
		return false, validate(pattern, p)
	}
	return true, nil
}

// matchClass matches c against the class starting at pattern[p] == '['
// and returns the position after the closing ']'.
func matchClass(pattern []rune, p int, c rune) (bool, int, error) {
	p++
	negate := false
	if p < len(pattern) && (pattern[p] == '^' || pattern[p] == '!') {
		negate = true
		p++
	}
	matched := false
	first := true
	for {
		if p >= len(pattern) {
			return false, 0, ErrBadPattern
		}
		if pattern[p] == ']' && !first {
			p++
			break
		}
		first = false
		lo := pattern[p]
		if lo == '\\' {
			p++
			if p >= len(pattern) {
				return false, 0, ErrBadPattern
			}
			lo = pattern[p]
		}
		p++
		hi := lo
		if p+1 < len(pattern) && pattern[p] == '-' && pattern[p+1] != ']' {
			hi = pattern[p+1]
			p += 2
			if hi < lo {
				return false, 0, ErrBadPattern
			}
		}
		if lo <= c && c <= hi {
			matched = true
		}
	}
	return matched != negate, p, nil
}

// validate checks the rest of the pattern so a mismatch on a broken
// pattern still reports the syntax error.
func validate(pattern []rune, p int) error {
	for p < len(pattern) {
		switch pattern[p] {
		case '[':
			_, next, err := matchClass(pattern, p, 0)
			if err != nil {
				return err
			}
			p = next
		case '\\':
			if p+1 >= len(pattern) {
				return ErrBadPattern
			}
			p += 2
		default:
			p++
		}
	}
	return nil
}
