package pysrc

// Constructor is the method whose signature drives generation
const Constructor = "__init__"

// Extract returns the constructor's parameters, its 0-indexed start line and
// its source lines. A class without a directly-defined constructor yields
// nil, -1, nil.
func Extract(cls *Class) ([]Param, int, []string) {
	ctor := cls.Method(Constructor)
	if ctor == nil {
		return nil, -1, nil
	}
	return ctor.Params, ctor.Line, ctor.Lines
}

// LocateMethod returns the exact source of the method name defined directly
// in cls and its 0-indexed start line. It returns "", -1 when the class does
// not define it, or binds the name to something other than a def.
func LocateMethod(cls *Class, name string) (string, int) {
	m := cls.Method(name)
	if m == nil {
		return "", -1
	}
	return m.Source(), m.Line
}
