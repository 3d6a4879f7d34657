package protocol

// The execution runtime of a worker process.
type Language int32

const (
	Language_LANGUAGE_UNSPECIFIED Language = 0
	Language_PYTHON               Language = 1
	Language_JAVA                 Language = 2
	Language_CPP                  Language = 3
)

func (l Language) String() string {
	switch l {
	case Language_PYTHON:
		return "python"
	case Language_JAVA:
		return "java"
	case Language_CPP:
		return "cpp"
	default:
		return "unspecified"
	}
}

// Returns true if the language identifies a known runtime.
func (l Language) IsValid() bool {
	switch l {
	case Language_PYTHON, Language_JAVA, Language_CPP:
		return true
	default:
		return false
	}
}
