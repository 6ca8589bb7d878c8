package domain

// ResultCode classifies the outcome of a repricing decision for one vendor at one quantity.
type ResultCode string

const (
	ResultChangeUp          ResultCode = "CHANGE_UP"
	ResultChangeDown        ResultCode = "CHANGE_DOWN"
	ResultChangeNew         ResultCode = "CHANGE_NEW"
	ResultIgnoreFloor       ResultCode = "IGNORE_FLOOR"
	ResultIgnoreSettings    ResultCode = "IGNORE_SETTINGS"
	ResultIgnoreLowest      ResultCode = "IGNORE_LOWEST"
	ResultIgnoreSisterLow   ResultCode = "IGNORE_SISTER_LOWEST"
	ResultIgnoreShortExpiry ResultCode = "IGNORE_SHORT_EXPIRY"
	ResultError             ResultCode = "ERROR"
)

// IsChange reports whether the result asks the caller to push a new price.
func (c ResultCode) IsChange() bool {
	switch c {
	case ResultChangeUp, ResultChangeDown, ResultChangeNew:
		return true
	}
	return false
}

// VendorKind tags an offer relative to the vendor currently being priced.
type VendorKind string

const (
	VendorKindSelf       VendorKind = "self"
	VendorKindSister     VendorKind = "sister"
	VendorKindSimulated  VendorKind = "simulated_sister"
	VendorKindCompetitor VendorKind = "competitor"
)

// Badge is the marketplace trust marker attached to an offer.
type Badge struct {
	ID   int64
	Name string
}

// Present reports whether the offer actually carries a badge.
func (b Badge) Present() bool {
	return b.ID > 0 && b.Name != ""
}

// PriceBreak is the unit price applying once the purchased quantity reaches MinQty.
type PriceBreak struct {
	MinQty    int
	UnitPrice int64
	PromoDesc string
}

// Offer is one seller's listing for a product. Money fields are in cents.
type Offer struct {
	VendorID              int64
	VendorName            string
	InStock               bool
	StandardShipping      int64
	ShippingTimeDays      int
	Badge                 Badge
	PriceBreaks           []PriceBreak
	FreeShippingGap       int64
	FreeShippingThreshold int64
	Inventory             int
}

// UpDownRestriction limits the direction a vendor's price may move.
type UpDownRestriction string

const (
	UpDownBoth UpDownRestriction = "BOTH"
	UpDownUp   UpDownRestriction = "UP"
	UpDownDown UpDownRestriction = "DOWN"
)

// BadgeIndicator selects which competitors a vendor measures itself against.
type BadgeIndicator string

const (
	BadgeIndicatorAll       BadgeIndicator = "ALL"
	BadgeIndicatorBadgeOnly BadgeIndicator = "BADGE_ONLY"
)

// HandlingTimeGroup keeps only competitors shipping within a window.
type HandlingTimeGroup string

const (
	HandlingTimeAll       HandlingTimeGroup = "ALL"
	HandlingTimeOneToTwo  HandlingTimeGroup = "1-2"
	HandlingTimeUpToFive  HandlingTimeGroup = "<=5"
	HandlingTimeSixOrMore HandlingTimeGroup = ">=6"
)

// PricingStrategy selects how the undercut target is derived from a competitor.
type PricingStrategy string

const (
	StrategyUnit      PricingStrategy = "UNIT"
	StrategyTotalCost PricingStrategy = "TOTAL_COST"
	StrategyBuyBox    PricingStrategy = "BUY_BOX"
)

// VendorSetting is the normalized, fully defaulted pricing policy of one own vendor for one product.
type VendorSetting struct {
	VendorID                    int64             `json:"vendorId"`
	Enabled                     bool              `json:"enabled"`
	FloorPrice                  int64             `json:"floorPrice"`
	MaxPrice                    int64             `json:"maxPrice"`
	UpDown                      UpDownRestriction `json:"upDown"`
	UpPercent                   float64           `json:"upPercent"`
	UpPercentBadged             float64           `json:"upPercentBadged"`
	DownPercent                 float64           `json:"downPercent"`
	DownPercentBadged           float64           `json:"downPercentBadged"`
	BadgeIndicator              BadgeIndicator    `json:"badgeIndicator"`
	HandlingTimeGroup           HandlingTimeGroup `json:"handlingTimeGroup"`
	ExcludedVendorIDs           []int64           `json:"excludedVendorIds"`
	InactiveVendorIDs           []int64           `json:"inactiveVendorIds"`
	InventoryCompeteThreshold   int               `json:"inventoryCompeteThreshold"`
	SuppressPriceBreak          bool              `json:"suppressPriceBreak"`
	CompeteOnPriceBreakOnly     bool              `json:"competeOnPriceBreakOnly"`
	CompareQ2WithQ1             bool              `json:"compareQ2WithQ1"`
	CompeteWithAllVendors       bool              `json:"competeWithAllVendors"`
	SisterVendorIDs             []int64           `json:"sisterVendorIds"`
	KeepPosition                bool              `json:"keepPosition"`
	FloorCompeteWithNext        bool              `json:"floorCompeteWithNext"`
	OwnVendorInventoryThreshold int               `json:"ownVendorInventoryThreshold"`
	Strategy                    PricingStrategy   `json:"strategy"`
	NotCheapest                 bool              `json:"notCheapest"`
	SuppressIfQ1NotUpdated      bool              `json:"suppressIfQ1NotUpdated"`
}

// VendorSettingRecord is the loosely typed policy as stored or submitted by operators.
// It is turned into a VendorSetting by normalization before the engine sees it.
type VendorSettingRecord struct {
	VendorID                    int64    `firestore:"vendorId" json:"vendorId" yaml:"vendor_id"`
	Enabled                     *bool    `firestore:"enabled" json:"enabled,omitempty" yaml:"enabled"`
	FloorPrice                  *int64   `firestore:"floorPrice" json:"floorPrice,omitempty" yaml:"floor_price"`
	MaxPrice                    *int64   `firestore:"maxPrice" json:"maxPrice,omitempty" yaml:"max_price"`
	UpDown                      string   `firestore:"upDown" json:"upDown,omitempty" yaml:"up_down"`
	UpPercent                   *float64 `firestore:"upPercent" json:"upPercent,omitempty" yaml:"up_percent"`
	UpPercentBadged             *float64 `firestore:"upPercentBadged" json:"upPercentBadged,omitempty" yaml:"up_percent_badged"`
	DownPercent                 *float64 `firestore:"downPercent" json:"downPercent,omitempty" yaml:"down_percent"`
	DownPercentBadged           *float64 `firestore:"downPercentBadged" json:"downPercentBadged,omitempty" yaml:"down_percent_badged"`
	BadgeIndicator              string   `firestore:"badgeIndicator" json:"badgeIndicator,omitempty" yaml:"badge_indicator"`
	HandlingTimeGroup           string   `firestore:"handlingTimeGroup" json:"handlingTimeGroup,omitempty" yaml:"handling_time_group"`
	ExcludedVendorIDs           []int64  `firestore:"excludedVendorIds" json:"excludedVendorIds,omitempty" yaml:"excluded_vendor_ids"`
	InactiveVendorIDs           []int64  `firestore:"inactiveVendorIds" json:"inactiveVendorIds,omitempty" yaml:"inactive_vendor_ids"`
	InventoryCompeteThreshold   *int     `firestore:"inventoryCompeteThreshold" json:"inventoryCompeteThreshold,omitempty" yaml:"inventory_compete_threshold"`
	SuppressPriceBreak          *bool    `firestore:"suppressPriceBreak" json:"suppressPriceBreak,omitempty" yaml:"suppress_price_break"`
	CompeteOnPriceBreakOnly     *bool    `firestore:"competeOnPriceBreakOnly" json:"competeOnPriceBreakOnly,omitempty" yaml:"compete_on_price_break_only"`
	CompareQ2WithQ1             *bool    `firestore:"compareQ2WithQ1" json:"compareQ2WithQ1,omitempty" yaml:"compare_q2_with_q1"`
	CompeteWithAllVendors       *bool    `firestore:"competeWithAllVendors" json:"competeWithAllVendors,omitempty" yaml:"compete_with_all_vendors"`
	SisterVendorIDs             string   `firestore:"sisterVendorIds" json:"sisterVendorIds,omitempty" yaml:"sister_vendor_ids"`
	KeepPosition                *bool    `firestore:"keepPosition" json:"keepPosition,omitempty" yaml:"keep_position"`
	FloorCompeteWithNext        *bool    `firestore:"floorCompeteWithNext" json:"floorCompeteWithNext,omitempty" yaml:"floor_compete_with_next"`
	OwnVendorInventoryThreshold *int     `firestore:"ownVendorInventoryThreshold" json:"ownVendorInventoryThreshold,omitempty" yaml:"own_vendor_inventory_threshold"`
	Strategy                    string   `firestore:"strategy" json:"strategy,omitempty" yaml:"strategy"`
	NotCheapest                 *bool    `firestore:"notCheapest" json:"notCheapest,omitempty" yaml:"not_cheapest"`
	SuppressIfQ1NotUpdated      *bool    `firestore:"suppressIfQ1NotUpdated" json:"suppressIfQ1NotUpdated,omitempty" yaml:"suppress_if_q1_not_updated"`
}

// OwnVendor is one entry of the operator-maintained table of vendor accounts the caller controls.
type OwnVendor struct {
	ID       int64
	Name     string
	Defaults VendorSettingRecord
}

// RunContext carries cross-cutting flags for one engine invocation.
type RunContext struct {
	RunID   string
	SlowRun bool
}

// BoardEntry is one offer's standing on a ranked buy-box board at a fixed quantity.
type BoardEntry struct {
	VendorID       int64
	VendorName     string
	Kind           VendorKind
	Quantity       int
	UnitPrice      int64
	TotalCost      int64
	Badged         bool
	ShippingBucket int
	Rank           int
}

// CandidateSolution is the solver's proposal for one own vendor at one quantity.
type CandidateSolution struct {
	ProductID       string
	Quantity        int
	CompeteQuantity int
	Vendor          Offer
	BestPrice       *int64
	BuyBoxRank      int
	Setting         VendorSetting
	Board           []BoardEntry
	VendorView      []BoardEntry
	TriggeredBy     *int64
}

// Decision is a candidate solution with its final outcome.
type Decision struct {
	Solution       CandidateSolution
	Result         ResultCode
	ExistingPrice  *int64
	SuggestedPrice *int64
	Rationale      string
	TriggeredBy    *int64
	Valid          bool
}

// Quantity is a shorthand for the decision's quantity.
func (d Decision) Quantity() int { return d.Solution.Quantity }

// VendorID is a shorthand for the priced vendor.
func (d Decision) VendorID() int64 { return d.Solution.Vendor.VendorID }
