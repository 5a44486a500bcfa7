package schema

// Custom string types for type safety.
type (
	// ChangeType classifies an externally asserted or detected change.
	ChangeType string

	// ChangeCategory is the coarser grouping used by comparison summaries.
	ChangeCategory string

	// TransformationType classifies a multi-snapshot pattern of changes.
	TransformationType string

	// EvidenceTag is a closed keyword tag attached to detected-change evidence.
	EvidenceTag string

	// TrendDirection describes where a score history is heading.
	TrendDirection string

	// Significance buckets a period-over-period score change.
	Significance string

	// CorrelationStrength buckets an event/score correlation.
	CorrelationStrength string

	// MilestoneType classifies a score milestone.
	MilestoneType string

	// PatternLabel summarizes the overall change pattern of a timeline.
	PatternLabel string

	// AnomalyKind classifies a score anomaly.
	AnomalyKind string

	// ComponentKey identifies a composite-score component.
	ComponentKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// All change types supported.
const (
	PhysicalAppearanceChange ChangeType = "physical_appearance"
	LifestyleChange          ChangeType = "lifestyle"
	CareerChange             ChangeType = "career"
	HealthChange             ChangeType = "health"
	RelationshipsChange      ChangeType = "relationships"
	OtherChange              ChangeType = "other"
)

// All change categories used by comparison summaries.
const (
	PhysicalCategory  ChangeCategory = "physical"
	LifestyleCategory ChangeCategory = "lifestyle"
	ContentCategory   ChangeCategory = "content"
	MetadataCategory  ChangeCategory = "metadata"
)

// All transformation types supported.
const (
	SurgicalTransformation TransformationType = "surgical"
	CosmeticTransformation TransformationType = "cosmetic"
	FitnessTransformation  TransformationType = "fitness"
	AgingTransformation    TransformationType = "aging"
	UnknownTransformation  TransformationType = "unknown"
)

// Evidence tags attached by the change detector. Transformation
// classification checks these instead of free-text substring matching.
const (
	TagFacial   EvidenceTag = "facial"
	TagNose     EvidenceTag = "nose"
	TagMouth    EvidenceTag = "mouth"
	TagCosmetic EvidenceTag = "cosmetic"
	TagWeight   EvidenceTag = "weight"
	TagHeight   EvidenceTag = "height"
	TagContent  EvidenceTag = "content"
)

// All trend directions.
const (
	ImprovingTrend TrendDirection = "improving"
	DecliningTrend TrendDirection = "declining"
	StableTrend    TrendDirection = "stable"
)

// Significance buckets for period comparisons.
const (
	MinimalSignificance     Significance = "minimal"
	ModerateSignificance    Significance = "moderate"
	SignificantSignificance Significance = "significant"
	MajorSignificance       Significance = "major"
)

// Correlation strength buckets.
const (
	WeakCorrelation     CorrelationStrength = "weak"
	ModerateCorrelation CorrelationStrength = "moderate"
	StrongCorrelation   CorrelationStrength = "strong"
)

// All milestone types.
const (
	PeakScoreMilestone   MilestoneType = "peak_score"
	ImprovementMilestone MilestoneType = "significant_improvement"
	ConsistencyMilestone MilestoneType = "consistency"
)

// Pattern labels for evolution reports, from least to most active.
const (
	StablePattern   PatternLabel = "stable"
	GradualPattern  PatternLabel = "gradual"
	ModeratePattern PatternLabel = "moderate"
	ActivePattern   PatternLabel = "active"
)

// Anomaly kinds.
const (
	PeakAnomaly   AnomalyKind = "peak"
	ValleyAnomaly AnomalyKind = "valley"
)

// Composite score component keys.
const (
	FacialBeautyComponent     ComponentKey = "facial_beauty"
	BodyProportionComponent   ComponentKey = "body_proportion"
	SkinQualityComponent      ComponentKey = "skin_quality"
	SymmetryComponent         ComponentKey = "symmetry"
	ContentQualityComponent   ComponentKey = "content_quality"
	SocialEngagementComponent ComponentKey = "social_engagement"
	ConsistencyComponent      ComponentKey = "consistency"
	UniquenessComponent       ComponentKey = "uniqueness"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllChangeTypes lists every change type.
var AllChangeTypes = []ChangeType{
	PhysicalAppearanceChange,
	LifestyleChange,
	CareerChange,
	HealthChange,
	RelationshipsChange,
	OtherChange,
}

// ValidChangeTypes lists all valid change types.
var ValidChangeTypes = map[ChangeType]struct{}{
	PhysicalAppearanceChange: {},
	LifestyleChange:          {},
	CareerChange:             {},
	HealthChange:             {},
	RelationshipsChange:      {},
	OtherChange:              {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// GetDefaultComponentWeights returns the default composite-score weights.
// The weights sum to 1.0; absent components are never renormalized, so a
// score computed from partial inputs is systematically biased low.
func GetDefaultComponentWeights() map[ComponentKey]float64 {
	return map[ComponentKey]float64{
		FacialBeautyComponent:     0.25,
		BodyProportionComponent:   0.20,
		SkinQualityComponent:      0.15,
		SymmetryComponent:         0.15,
		ContentQualityComponent:   0.10,
		SocialEngagementComponent: 0.08,
		ConsistencyComponent:      0.05,
		UniquenessComponent:       0.02,
	}
}

// CategoryForChangeType maps a change type to its comparison category.
func CategoryForChangeType(ct ChangeType) ChangeCategory {
	switch ct {
	case PhysicalAppearanceChange, HealthChange:
		return PhysicalCategory
	case CareerChange, LifestyleChange:
		return LifestyleCategory
	case OtherChange:
		return ContentCategory
	default:
		return MetadataCategory
	}
}
