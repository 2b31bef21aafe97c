package meta

// LogicalOp combines a filter's boolean result with the running accumulator
// of its sibling sequence. The first sibling's op is implicitly "and".
type LogicalOp string

const (
	LogicalAnd LogicalOp = "and"
	LogicalOr  LogicalOp = "or"
	LogicalNot LogicalOp = "not"
)

// CompareOp is a leaf filter's comparison operator.
type CompareOp string

const (
	OpEq         CompareOp = "eq"
	OpNeq        CompareOp = "neq"
	OpLike       CompareOp = "like"
	OpNlike      CompareOp = "nlike"
	OpEmpty      CompareOp = "empty"
	OpNotEmpty   CompareOp = "notempty"
	OpBlank      CompareOp = "blank"
	OpNotBlank   CompareOp = "notblank"
	OpChecked    CompareOp = "checked"
	OpNotChecked CompareOp = "notchecked"
	OpNull       CompareOp = "null"
	OpNotNull    CompareOp = "notnull"
	OpAllOf      CompareOp = "allof"
	OpAnyOf      CompareOp = "anyof"
	OpNallOf     CompareOp = "nallof"
	OpNanyOf     CompareOp = "nanyof"
	OpLt         CompareOp = "lt"
	OpLte        CompareOp = "lte"
	OpGt         CompareOp = "gt"
	OpGte        CompareOp = "gte"
	OpIsWithin   CompareOp = "isWithin"
)

// CompareSubOp refines date comparisons with relative offsets anchored at
// "now", or marks an absolute date (exactDate).
type CompareSubOp string

const (
	SubOpToday           CompareSubOp = "today"
	SubOpTomorrow        CompareSubOp = "tomorrow"
	SubOpYesterday       CompareSubOp = "yesterday"
	SubOpOneWeekAgo      CompareSubOp = "oneWeekAgo"
	SubOpOneWeekFromNow  CompareSubOp = "oneWeekFromNow"
	SubOpOneMonthAgo     CompareSubOp = "oneMonthAgo"
	SubOpOneMonthFromNow CompareSubOp = "oneMonthFromNow"
	SubOpDaysAgo         CompareSubOp = "daysAgo"
	SubOpDaysFromNow     CompareSubOp = "daysFromNow"
	SubOpExactDate       CompareSubOp = "exactDate"

	// isWithin boundaries
	SubOpPastWeek         CompareSubOp = "pastWeek"
	SubOpPastMonth        CompareSubOp = "pastMonth"
	SubOpPastYear         CompareSubOp = "pastYear"
	SubOpPastNumberOfDays CompareSubOp = "pastNumberOfDays"
	SubOpNextWeek         CompareSubOp = "nextWeek"
	SubOpNextMonth        CompareSubOp = "nextMonth"
	SubOpNextYear         CompareSubOp = "nextYear"
	SubOpNextNumberOfDays CompareSubOp = "nextNumberOfDays"
)

// Filter is a node of a boolean expression tree. A group node carries an
// ordered sequence of children; a leaf node always resolves to exactly one
// column via FKColumnID.
//
// A group's value is NOT a single group-level operator applied to all
// children: it is the left-to-right fold of the children's results, each
// combined into the accumulator by that child's own LogicalOp.
type Filter struct {
	ID         string       `yaml:"id"`
	FKColumnID string       `yaml:"fk_column_id"`
	IsGroup    bool         `yaml:"is_group"`
	Children   []*Filter    `yaml:"children"`
	LogicalOp  LogicalOp    `yaml:"logical_op"`
	Op         CompareOp    `yaml:"comparison_op"`
	SubOp      CompareSubOp `yaml:"comparison_sub_op"`

	// Value is the comparison literal; list-valued operators accept a
	// comma-separated list.
	Value string `yaml:"value"`
}
