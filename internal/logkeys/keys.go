package logkeys

const (
	delimiter = "."

	Prefix = "lazy"

	StickyPrefix   = Prefix + delimiter + "sticky"
	StickyId       = StickyPrefix + delimiter + "id"
	StickyIndex    = StickyPrefix + delimiter + "index"
	StickyProduced = StickyPrefix + delimiter + "produced"

	DictPrefix    = Prefix + delimiter + "dict"
	DictId        = DictPrefix + delimiter + "id"
	DictOperation = DictPrefix + delimiter + "operation"
	DictKeys      = DictPrefix + delimiter + "keys"
	DictLazyKeys  = DictPrefix + delimiter + "lazy_keys"

	TernaryPrefix = Prefix + delimiter + "ternary"
	TernaryMode   = TernaryPrefix + delimiter + "mode"
)
