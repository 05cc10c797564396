package domain

// ItemDetail is keyed by (ItemID, DetailName).
type ItemDetail struct {
	ItemID     string `dynamodbav:"itemId" json:"itemId"`
	DetailName string `dynamodbav:"detailName" json:"detailName"`
	DetailType string `dynamodbav:"detailType" json:"detailType"`
}
