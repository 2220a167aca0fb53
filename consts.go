package thurgood

//	Marshal format 4.8
const (
	MARSHAL_MAJOR = 0x04
	MARSHAL_MINOR = 0x08
)

//	wire type tags
const (
	tagNil           = '0'
	tagTrue          = 'T'
	tagFalse         = 'F'
	tagInt           = 'i'
	tagSymbol        = ':'
	tagSymlink       = ';'
	tagObjectLink    = '@'
	tagString        = '"'
	tagIvar          = 'I'
	tagArray         = '['
	tagHash          = '{'
	tagHashDefault   = '}'
	tagFloat         = 'f'
	tagObject        = 'o'
	tagUserData      = 'u'
	tagUserMarshal   = 'U'
	tagExtended      = 'e'
	tagClass         = 'c'
	tagModule        = 'm'
	tagClassOrModule = 'M'
	tagStruct        = 'S'
	tagRegex         = '/'
	tagBignum        = 'l'
)

//	attribute symbols recognized on instance-variable wrapped strings and regexes
const (
	attrShortEncoding = "E"
	attrEncoding      = "encoding"
)
