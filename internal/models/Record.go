package models

// OperatorPlaceholder is recorded as the operator when the profile has no nickname.
const OperatorPlaceholder = "Nickname not set"

// Record is one sign-in event. It is never modified after creation.
type Record struct {
	ID          string `json:"id" yaml:"id"`
	Course      string `json:"course" yaml:"course"`
	StudentName string `json:"studentName" yaml:"studentName"`
	Remark      string `json:"remark" yaml:"remark"`
	CreatedAt   string `json:"createdAt" yaml:"createdAt"`
	Operator    string `json:"operator" yaml:"operator"`
}

// RecordCollection is ordered newest first.
type RecordCollection []Record

func (c RecordCollection) Len() int {
	return len(c)
}

// Newest returns the head of the collection.
func (c RecordCollection) Newest() (Record, bool) {
	if len(c) == 0 {
		return Record{}, false
	}
	return c[0], true
}
