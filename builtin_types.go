package xmlschema

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
)

// builtinType describes one entry of the XML Schema Part 2 type universe:
// its lexical validator, its primitive ancestor, and its default whitespace
// handling.
type builtinType struct {
	Name       string
	Primitive  string
	WhiteSpace string // preserve, replace, or collapse
	Validate   func(value string) error
}

var builtinTypes = map[string]*builtinType{}

func register(name, primitive, whiteSpace string, validate func(string) error) {
	builtinTypes[name] = &builtinType{Name: name, Primitive: primitive, WhiteSpace: whiteSpace, Validate: validate}
}

func init() {
	// Special ur-types
	register("anyType", "anyType", WhitespacePreserve, validateAnyValue)
	register("anySimpleType", "anySimpleType", WhitespacePreserve, validateAnyValue)
	register("anyAtomicType", "anyAtomicType", WhitespacePreserve, validateAnyValue)

	// Primitive types
	register("string", "string", WhitespacePreserve, validateStringValue)
	register("boolean", "boolean", WhitespaceCollapse, validateBoolean)
	register("decimal", "decimal", WhitespaceCollapse, validateDecimal)
	register("float", "float", WhitespaceCollapse, validateFloat)
	register("double", "double", WhitespaceCollapse, validateDouble)
	register("duration", "duration", WhitespaceCollapse, validateDuration)
	register("dateTime", "dateTime", WhitespaceCollapse, validateDateTime)
	register("time", "time", WhitespaceCollapse, validateTime)
	register("date", "date", WhitespaceCollapse, validateDate)
	register("gYearMonth", "gYearMonth", WhitespaceCollapse, validateGYearMonth)
	register("gYear", "gYear", WhitespaceCollapse, validateGYear)
	register("gMonthDay", "gMonthDay", WhitespaceCollapse, validateGMonthDay)
	register("gDay", "gDay", WhitespaceCollapse, validateGDay)
	register("gMonth", "gMonth", WhitespaceCollapse, validateGMonth)
	register("hexBinary", "hexBinary", WhitespaceCollapse, validateHexBinary)
	register("base64Binary", "base64Binary", WhitespaceCollapse, validateBase64Binary)
	register("anyURI", "anyURI", WhitespaceCollapse, validateAnyURI)
	register("QName", "QName", WhitespaceCollapse, validateQNameValue)
	register("NOTATION", "NOTATION", WhitespaceCollapse, validateNOTATION)

	// String-derived types
	register("normalizedString", "string", WhitespaceReplace, validateNormalizedString)
	register("token", "string", WhitespaceCollapse, validateToken)
	register("language", "string", WhitespaceCollapse, validateLanguage)
	register("Name", "string", WhitespaceCollapse, validateNameValue)
	register("NCName", "string", WhitespaceCollapse, validateNCNameValue)
	register("ID", "string", WhitespaceCollapse, validateNCNameValue)
	register("IDREF", "string", WhitespaceCollapse, validateNCNameValue)
	register("IDREFS", "string", WhitespaceCollapse, validateIDREFS)
	register("ENTITY", "string", WhitespaceCollapse, validateNCNameValue)
	register("ENTITIES", "string", WhitespaceCollapse, validateENTITIES)
	register("NMTOKEN", "string", WhitespaceCollapse, validateNMTOKEN)
	register("NMTOKENS", "string", WhitespaceCollapse, validateNMTOKENS)

	// Integer family
	register("integer", "decimal", WhitespaceCollapse, validateInteger)
	register("nonPositiveInteger", "decimal", WhitespaceCollapse, validateNonPositiveInteger)
	register("negativeInteger", "decimal", WhitespaceCollapse, validateNegativeInteger)
	register("long", "decimal", WhitespaceCollapse, validateLong)
	register("int", "decimal", WhitespaceCollapse, validateInt)
	register("short", "decimal", WhitespaceCollapse, validateShort)
	register("byte", "decimal", WhitespaceCollapse, validateByte)
	register("nonNegativeInteger", "decimal", WhitespaceCollapse, validateNonNegativeInteger)
	register("unsignedLong", "decimal", WhitespaceCollapse, validateUnsignedLong)
	register("unsignedInt", "decimal", WhitespaceCollapse, validateUnsignedInt)
	register("unsignedShort", "decimal", WhitespaceCollapse, validateUnsignedShort)
	register("unsignedByte", "decimal", WhitespaceCollapse, validateUnsignedByte)
	register("positiveInteger", "decimal", WhitespaceCollapse, validatePositiveInteger)

	// XSD 1.1 additions
	register("dateTimeStamp", "dateTime", WhitespaceCollapse, validateDateTimeStamp)
	register("yearMonthDuration", "duration", WhitespaceCollapse, validateYearMonthDuration)
	register("dayTimeDuration", "duration", WhitespaceCollapse, validateDayTimeDuration)
}

// GetBuiltinType returns the built-in type named by name, stripping any
// namespace prefix, or nil.
func GetBuiltinType(name string) *builtinType {
	if idx := strings.Index(name, ":"); idx >= 0 {
		name = name[idx+1:]
	}
	return builtinTypes[name]
}

// IsBuiltinType reports whether name refers to a built-in XSD type.
func IsBuiltinType(name string) bool {
	return GetBuiltinType(name) != nil
}

var (
	builtinSimpleMu    sync.Mutex
	builtinSimpleTypes = map[string]*SimpleType{}
)

// builtinSimpleType returns a shared SimpleType descriptor for a built-in
// type local name, or nil if the name is unknown.
func builtinSimpleType(local string) *SimpleType {
	bt := GetBuiltinType(local)
	if bt == nil {
		return nil
	}
	builtinSimpleMu.Lock()
	defer builtinSimpleMu.Unlock()
	if st, ok := builtinSimpleTypes[bt.Name]; ok {
		return st
	}
	st := &SimpleType{
		QName:   QName{Namespace: XSDNamespace, Local: bt.Name},
		Variety: VarietyAtomic,
		builtin: bt,
	}
	builtinSimpleTypes[bt.Name] = st
	return st
}

func isNumericTypeName(typeName string) bool {
	if bt := GetBuiltinType(typeName); bt != nil {
		switch bt.Primitive {
		case "decimal", "float", "double":
			return true
		}
	}
	return false
}

func isDateTimeTypeName(typeName string) bool {
	if bt := GetBuiltinType(typeName); bt != nil {
		switch bt.Primitive {
		case "dateTime", "date", "time", "duration",
			"gYear", "gYearMonth", "gMonth", "gMonthDay", "gDay":
			return true
		}
	}
	return false
}

// Lexical validators

func validateAnyValue(string) error { return nil }

func validateStringValue(string) error { return nil }

func validateBoolean(value string) error {
	switch value {
	case "true", "false", "1", "0":
		return nil
	default:
		return decodeErrorf("boolean", value, nil)
	}
}

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

func validateDecimal(value string) error {
	if !decimalPattern.MatchString(value) {
		return decodeErrorf("decimal", value, nil)
	}
	if _, _, err := new(big.Float).Parse(value, 10); err != nil {
		return decodeErrorf("decimal", value, err)
	}
	return nil
}

func validateFloat(value string) error {
	switch value {
	case "INF", "+INF", "-INF", "NaN":
		return nil
	}
	if _, err := strconv.ParseFloat(value, 32); err != nil {
		return decodeErrorf("float", value, nil)
	}
	return nil
}

func validateDouble(value string) error {
	switch value {
	case "INF", "+INF", "-INF", "NaN":
		return nil
	}
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return decodeErrorf("double", value, nil)
	}
	return nil
}

var durationPattern = regexp.MustCompile(`^-?P(\d+Y)?(\d+M)?(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d+)?S)?)?$`)

func validateDuration(value string) error {
	if !durationPattern.MatchString(value) {
		return decodeErrorf("duration", value, nil)
	}
	trimmed := strings.TrimPrefix(value, "-")
	if trimmed == "P" || trimmed == "PT" {
		return decodeErrorf("duration", value, nil)
	}
	return nil
}

func validateYearMonthDuration(value string) error {
	if err := validateDuration(value); err != nil {
		return err
	}
	if strings.ContainsAny(value, "DT") {
		return decodeErrorf("yearMonthDuration", value, nil)
	}
	return nil
}

func validateDayTimeDuration(value string) error {
	if err := validateDuration(value); err != nil {
		return err
	}
	if strings.ContainsAny(strings.SplitN(value, "T", 2)[0], "YM") {
		return decodeErrorf("dayTimeDuration", value, nil)
	}
	return nil
}

var dateTimeFormats = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05.999",
	"2006-01-02T15:04:05.999Z",
	"2006-01-02T15:04:05.999-07:00",
}

func validateDateTime(value string) error {
	for _, format := range dateTimeFormats {
		if _, err := time.Parse(format, value); err == nil {
			return nil
		}
	}
	return decodeErrorf("dateTime", value, nil)
}

func validateDateTimeStamp(value string) error {
	if err := validateDateTime(value); err != nil {
		return decodeErrorf("dateTimeStamp", value, nil)
	}
	if !strings.HasSuffix(value, "Z") && !regexp.MustCompile(`[+-]\d{2}:\d{2}$`).MatchString(value) {
		return decodeErrorf("dateTimeStamp", value, nil)
	}
	return nil
}

var timePattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)

func validateTime(value string) error {
	if !timePattern.MatchString(value) {
		return decodeErrorf("time", value, nil)
	}
	parts := strings.Split(value, ":")
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])
	secondPart := parts[2]
	if idx := strings.IndexAny(secondPart, ".Z+-"); idx >= 0 {
		secondPart = secondPart[:idx]
	}
	second, _ := strconv.Atoi(secondPart)
	if hour > 23 || minute > 59 || second > 59 {
		return decodeErrorf("time", value, nil)
	}
	return nil
}

var datePattern = regexp.MustCompile(`^-?\d{4,}-\d{2}-\d{2}(Z|[+-]\d{2}:\d{2})?$`)

func validateDate(value string) error {
	if !datePattern.MatchString(value) {
		return decodeErrorf("date", value, nil)
	}
	datePart := value
	if strings.HasSuffix(value, "Z") {
		datePart = value[:len(value)-1]
	} else if len(value) >= 6 &&
		(value[len(value)-6] == '+' || value[len(value)-6] == '-') &&
		value[len(value)-3] == ':' {
		datePart = value[:len(value)-6]
	}
	if strings.HasPrefix(datePart, "-") {
		// Years before 0001 are lexically valid.
		return nil
	}
	if _, err := time.Parse("2006-01-02", datePart); err != nil {
		return decodeErrorf("date", value, nil)
	}
	return nil
}

var gYearMonthPattern = regexp.MustCompile(`^-?\d{4,}-\d{2}(Z|[+-]\d{2}:\d{2})?$`)

func validateGYearMonth(value string) error {
	if !gYearMonthPattern.MatchString(value) {
		return decodeErrorf("gYearMonth", value, nil)
	}
	parts := strings.Split(value, "-")
	monthStr := parts[len(parts)-1]
	if idx := strings.IndexAny(monthStr, "Z+-"); idx >= 0 {
		monthStr = monthStr[:idx]
	}
	month, _ := strconv.Atoi(monthStr)
	if month < 1 || month > 12 {
		return decodeErrorf("gYearMonth", value, nil)
	}
	return nil
}

var gYearPattern = regexp.MustCompile(`^-?\d{4,}(Z|[+-]\d{2}:\d{2})?$`)

func validateGYear(value string) error {
	if !gYearPattern.MatchString(value) {
		return decodeErrorf("gYear", value, nil)
	}
	return nil
}

var gMonthDayPattern = regexp.MustCompile(`^--\d{2}-\d{2}(Z|[+-]\d{2}:\d{2})?$`)

func validateGMonthDay(value string) error {
	if !gMonthDayPattern.MatchString(value) {
		return decodeErrorf("gMonthDay", value, nil)
	}
	parts := strings.Split(value[2:], "-")
	month, _ := strconv.Atoi(parts[0])
	dayStr := parts[1]
	if idx := strings.IndexAny(dayStr, "Z+-"); idx >= 0 {
		dayStr = dayStr[:idx]
	}
	day, _ := strconv.Atoi(dayStr)
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return decodeErrorf("gMonthDay", value, nil)
	}
	return nil
}

var gDayPattern = regexp.MustCompile(`^---\d{2}(Z|[+-]\d{2}:\d{2})?$`)

func validateGDay(value string) error {
	if !gDayPattern.MatchString(value) {
		return decodeErrorf("gDay", value, nil)
	}
	dayStr := value[3:]
	if idx := strings.IndexAny(dayStr, "Z+-"); idx >= 0 {
		dayStr = dayStr[:idx]
	}
	day, _ := strconv.Atoi(dayStr)
	if day < 1 || day > 31 {
		return decodeErrorf("gDay", value, nil)
	}
	return nil
}

var gMonthPattern = regexp.MustCompile(`^--\d{2}(Z|[+-]\d{2}:\d{2})?$`)

func validateGMonth(value string) error {
	if !gMonthPattern.MatchString(value) {
		return decodeErrorf("gMonth", value, nil)
	}
	monthStr := value[2:]
	if idx := strings.IndexAny(monthStr, "Z+-"); idx >= 0 {
		monthStr = monthStr[:idx]
	}
	month, _ := strconv.Atoi(monthStr)
	if month < 1 || month > 12 {
		return decodeErrorf("gMonth", value, nil)
	}
	return nil
}

func validateHexBinary(value string) error {
	if len(value)%2 != 0 {
		return decodeErrorf("hexBinary", value, nil)
	}
	if _, err := hex.DecodeString(value); err != nil {
		return decodeErrorf("hexBinary", value, err)
	}
	return nil
}

func validateBase64Binary(value string) error {
	if _, err := base64.StdEncoding.DecodeString(value); err != nil {
		return decodeErrorf("base64Binary", value, err)
	}
	return nil
}

func validateAnyURI(string) error {
	// Every string is a lexically valid anyURI.
	return nil
}

func validateQNameValue(value string) error {
	parts := strings.Split(value, ":")
	if len(parts) > 2 {
		return decodeErrorf("QName", value, nil)
	}
	for _, part := range parts {
		if !IsValidNCName(part) {
			return decodeErrorf("QName", value, nil)
		}
	}
	return nil
}

func validateNOTATION(value string) error {
	if err := validateQNameValue(value); err != nil {
		return decodeErrorf("NOTATION", value, nil)
	}
	return nil
}

func validateNormalizedString(value string) error {
	if strings.ContainsAny(value, "\r\n\t") {
		return decodeErrorf("normalizedString", value, nil)
	}
	return nil
}

func validateToken(value string) error {
	if err := validateNormalizedString(value); err != nil {
		return decodeErrorf("token", value, nil)
	}
	if strings.HasPrefix(value, " ") || strings.HasSuffix(value, " ") || strings.Contains(value, "  ") {
		return decodeErrorf("token", value, nil)
	}
	return nil
}

var languagePattern = regexp.MustCompile(`^[a-zA-Z]{1,8}(-[a-zA-Z0-9]{1,8})*$`)

func validateLanguage(value string) error {
	if !languagePattern.MatchString(value) {
		return decodeErrorf("language", value, nil)
	}
	return nil
}

func validateNameValue(value string) error {
	if !IsValidName(value) {
		return decodeErrorf("Name", value, nil)
	}
	return nil
}

func validateNCNameValue(value string) error {
	if !IsValidNCName(value) {
		return decodeErrorf("NCName", value, nil)
	}
	return nil
}

func validateIDREFS(value string) error {
	ids := strings.Fields(value)
	if len(ids) == 0 {
		return decodeErrorf("IDREFS", value, nil)
	}
	for _, id := range ids {
		if !IsValidNCName(id) {
			return decodeErrorf("IDREFS", value, nil)
		}
	}
	return nil
}

func validateENTITIES(value string) error {
	entities := strings.Fields(value)
	if len(entities) == 0 {
		return decodeErrorf("ENTITIES", value, nil)
	}
	for _, entity := range entities {
		if !IsValidNCName(entity) {
			return decodeErrorf("ENTITIES", value, nil)
		}
	}
	return nil
}

func validateNMTOKEN(value string) error {
	if value == "" {
		return decodeErrorf("NMTOKEN", value, nil)
	}
	for _, r := range value {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) &&
			r != '.' && r != '-' && r != '_' && r != ':' {
			return decodeErrorf("NMTOKEN", value, nil)
		}
	}
	return nil
}

func validateNMTOKENS(value string) error {
	tokens := strings.Fields(value)
	if len(tokens) == 0 {
		return decodeErrorf("NMTOKENS", value, nil)
	}
	for _, token := range tokens {
		if err := validateNMTOKEN(token); err != nil {
			return decodeErrorf("NMTOKENS", value, nil)
		}
	}
	return nil
}

func validateInteger(value string) error {
	if _, ok := new(big.Int).SetString(value, 10); !ok {
		return decodeErrorf("integer", value, nil)
	}
	return nil
}

func validateBoundedBigInt(name, value string, check func(*big.Int) bool) error {
	i, ok := new(big.Int).SetString(value, 10)
	if !ok || !check(i) {
		return decodeErrorf(name, value, nil)
	}
	return nil
}

func validateNonPositiveInteger(value string) error {
	return validateBoundedBigInt("nonPositiveInteger", value, func(i *big.Int) bool { return i.Sign() <= 0 })
}

func validateNegativeInteger(value string) error {
	return validateBoundedBigInt("negativeInteger", value, func(i *big.Int) bool { return i.Sign() < 0 })
}

func validateNonNegativeInteger(value string) error {
	return validateBoundedBigInt("nonNegativeInteger", value, func(i *big.Int) bool { return i.Sign() >= 0 })
}

func validatePositiveInteger(value string) error {
	return validateBoundedBigInt("positiveInteger", value, func(i *big.Int) bool { return i.Sign() > 0 })
}

func validateLong(value string) error {
	if _, err := strconv.ParseInt(value, 10, 64); err != nil {
		return decodeErrorf("long", value, nil)
	}
	return nil
}

func validateInt(value string) error {
	if _, err := strconv.ParseInt(value, 10, 32); err != nil {
		return decodeErrorf("int", value, nil)
	}
	return nil
}

func validateShort(value string) error {
	if _, err := strconv.ParseInt(value, 10, 16); err != nil {
		return decodeErrorf("short", value, nil)
	}
	return nil
}

func validateByte(value string) error {
	if _, err := strconv.ParseInt(value, 10, 8); err != nil {
		return decodeErrorf("byte", value, nil)
	}
	return nil
}

func validateUnsignedLong(value string) error {
	if _, err := strconv.ParseUint(value, 10, 64); err != nil {
		return decodeErrorf("unsignedLong", value, nil)
	}
	return nil
}

func validateUnsignedInt(value string) error {
	if _, err := strconv.ParseUint(value, 10, 32); err != nil {
		return decodeErrorf("unsignedInt", value, nil)
	}
	return nil
}

func validateUnsignedShort(value string) error {
	if _, err := strconv.ParseUint(value, 10, 16); err != nil {
		return decodeErrorf("unsignedShort", value, nil)
	}
	return nil
}

func validateUnsignedByte(value string) error {
	if _, err := strconv.ParseUint(value, 10, 8); err != nil {
		return decodeErrorf("unsignedByte", value, nil)
	}
	return nil
}

// compareTypedValues compares two lexical values in the value space named
// by typeName. Numeric spaces use arbitrary precision; everything else
// falls back to string ordering.
func compareTypedValues(v1, v2, typeName string) (int, error) {
	if isNumericTypeName(typeName) {
		f1, err := parseBigFloat(v1)
		if err != nil {
			return 0, err
		}
		f2, err := parseBigFloat(v2)
		if err != nil {
			return 0, err
		}
		return f1.Cmp(f2), nil
	}
	// Date/time families order correctly under string comparison for the
	// common timezone-free forms.
	return strings.Compare(v1, v2), nil
}

func parseBigFloat(value string) (*big.Float, error) {
	f, _, err := new(big.Float).Parse(value, 10)
	if err != nil {
		return nil, fmt.Errorf("invalid numeric value %q", value)
	}
	return f, nil
}
