package macro

// stage is the position of the mocked scan within a function item. Stages
// are totally ordered and the scan only ever moves forward.
type stage int

const (
	stageStart stage = iota
	stageFnKeyword
	stageFnName
	stageArgs
	stageBody
)

func (s stage) String() string {
	switch s {
	case stageStart:
		return "start"
	case stageFnKeyword:
		return "fn keyword"
	case stageFnName:
		return "fn name"
	case stageArgs:
		return "argument list"
	case stageBody:
		return "body"
	}
	return "unknown"
}

func (s stage) before(other stage) bool { return s < other }
