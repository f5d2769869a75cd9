/*
 * @module service/evaluation/types
 * @description 元数据质量评估核心类型定义，包含规则、评估结果、评分汇总等类型
 * @architecture 分层架构 - 领域模型层
 * @documentReference ai_docs/metadata_quality_req.md
 * @stateFlow 原始元数据 -> 规范化 -> 规则评估 -> 评分 -> 建议生成
 * @rules 所有核心类型不可变，评估结果每次调用重新计算
 * @dependencies time
 * @refs catalogue.go, engine.go
 */

package evaluation

import "time"

// Metadata 数据集元数据记录，字段全部可选，缺失是规则需要解读的有效状态
type Metadata map[string]interface{}

// Category 质量维度分类，固定四个取值
type Category string

const (
	CategoryIdentification Category = "identification"
	CategoryDescription    Category = "description"
	CategoryLegal          Category = "legal"
	CategoryProvenance     Category = "provenance"
)

// Categories 按声明顺序排列的全部分类，用于分类优先级的平级排序
var Categories = []Category{
	CategoryIdentification,
	CategoryDescription,
	CategoryLegal,
	CategoryProvenance,
}

// legacyCategories 扩展规则组使用的历史分类到标准分类的映射表
// 分类归一必须集中在这一处，不允许在调用点内联映射
var legacyCategories = map[string]Category{
	"accessibility":    CategoryProvenance,
	"interoperability": CategoryDescription,
	"citation":         CategoryIdentification,
	"reusability":      CategoryDescription,
}

// NormalizeCategory 将任意分类标签归一到四个标准分类之一
// 返回false表示标签无法归一，目录装载时应当拒绝该规则
func NormalizeCategory(label string) (Category, bool) {
	switch Category(label) {
	case CategoryIdentification, CategoryDescription, CategoryLegal, CategoryProvenance:
		return Category(label), true
	}
	if mapped, ok := legacyCategories[label]; ok {
		return mapped, true
	}
	return "", false
}

// Severity 规则严重程度，仅用于建议排序，不参与评分
type Severity string

const (
	SeverityCritical   Severity = "critical"
	SeverityImportant  Severity = "important"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
)

// severityMultipliers 严重程度对应的优先级乘数，枚举上的全函数
var severityMultipliers = map[Severity]int{
	SeverityCritical:   4,
	SeverityImportant:  3,
	SeverityWarning:    2,
	SeveritySuggestion: 1,
}

// Multiplier 返回严重程度的优先级乘数
// 目录装载时已校验严重程度合法，未知取值按最低乘数处理
func (s Severity) Multiplier() int {
	if m, ok := severityMultipliers[s]; ok {
		return m
	}
	return 1
}

// Valid 严重程度是否为四个合法取值之一
func (s Severity) Valid() bool {
	_, ok := severityMultipliers[s]
	return ok
}

// Outcome 单条规则对单条记录的评估结果
type Outcome struct {
	Passed  bool        `json:"passed"`
	Value   interface{} `json:"value,omitempty"`
	Message string      `json:"message"`
}

// Pass 构造通过结果
func Pass(value interface{}, message string) Outcome {
	return Outcome{Passed: true, Value: value, Message: message}
}

// Fail 构造未通过结果
func Fail(value interface{}, message string) Outcome {
	return Outcome{Passed: false, Value: value, Message: message}
}

// RuleCheck 规则检查契约：纯函数，相同记录和时钟必须产生相同结果
type RuleCheck interface {
	Evaluate(record Metadata, now time.Time) Outcome
}

// CheckFunc 函数形式的规则检查适配器
type CheckFunc func(record Metadata, now time.Time) Outcome

// Evaluate 实现RuleCheck接口
func (f CheckFunc) Evaluate(record Metadata, now time.Time) Outcome {
	return f(record, now)
}

// RuleDefinition 规则定义，进程启动时构建，运行期不可变
type RuleDefinition struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Category       Category `json:"category"`
	Weight         int      `json:"weight"`
	Severity       Severity `json:"severity"`
	Check          RuleCheck `json:"-"`
	Recommendation string   `json:"recommendation"`
}

// RuleResult 带规则信息的评估结果，按目录顺序输出
type RuleResult struct {
	RuleID   string      `json:"rule_id"`
	RuleName string      `json:"rule_name"`
	Category Category    `json:"category"`
	Passed   bool        `json:"passed"`
	Value    interface{} `json:"value,omitempty"`
	Message  string      `json:"message"`
}

// CategoryWeightDetail 单个分类的权重明细
type CategoryWeightDetail struct {
	TotalWeight  int `json:"total_weight"`
	EarnedWeight int `json:"earned_weight"`
}

// ScoreSummary 评分汇总，由规则结果确定性导出，构建后不再修改
type ScoreSummary struct {
	OverallScore   int                               `json:"overall_score"`
	CategoryScores map[Category]int                  `json:"category_scores"`
	TotalWeight    int                               `json:"total_weight"`
	EarnedWeight   int                               `json:"earned_weight"`
	CategoryDetail map[Category]CategoryWeightDetail `json:"category_detail"`
}

// Grade 等级，由总分经固定阈值表离散化得到
type Grade struct {
	Letter      string `json:"letter"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// CategoryPriority 分类整改优先级条目，分数越低优先级越高
type CategoryPriority struct {
	Category Category `json:"category"`
	Score    int      `json:"score"`
	Rank     int      `json:"rank"`
}

// Recommendation 单条整改建议，由未通过规则结合规则定义富化得到
type Recommendation struct {
	RuleID        string   `json:"rule_id"`
	RuleName      string   `json:"rule_name"`
	Category      Category `json:"category"`
	Severity      Severity `json:"severity"`
	Priority      int      `json:"priority"`
	Message       string   `json:"message"`
	Action        string   `json:"action"`
	PotentialGain int      `json:"potential_gain"`
}

// CategoryGroup 按分类分组的建议桶
type CategoryGroup struct {
	Category       Category         `json:"category"`
	UrgencyScore   int              `json:"urgency_score"`
	IssueCount     int              `json:"issue_count"`
	CriticalCount  int              `json:"critical_count"`
	ImportantCount int              `json:"important_count"`
	Items          []Recommendation `json:"items"`
}

// GroupedRecommendations 分组建议视图
type GroupedRecommendations struct {
	Summary         string           `json:"summary"`
	Groups          []CategoryGroup  `json:"groups"`
	PriorityActions []Recommendation `json:"priority_actions"`
}

// EvaluationSummary 规则通过情况统计
type EvaluationSummary struct {
	TotalRules int     `json:"total_rules"`
	Passed     int     `json:"passed"`
	Failed     int     `json:"failed"`
	PassRate   float64 `json:"pass_rate"`
}

// EvaluationResult 汇总形式的评估结果
type EvaluationResult struct {
	Index            int              `json:"index"`
	OverallScore     int              `json:"overall_score"`
	Grade            Grade            `json:"grade"`
	Categories       map[Category]int `json:"categories"`
	Summary          EvaluationSummary `json:"summary"`
	Recommendations  []string         `json:"recommendations"`
	EvaluationTimeMs float64          `json:"evaluation_time_ms"`
}

// DetailedEvaluationResult 明细形式的评估结果
// 与汇总形式由完全相同的步骤计算，仅返回的中间产物不同
type DetailedEvaluationResult struct {
	EvaluationResult
	RuleResults        []RuleResult       `json:"rule_results"`
	CategoryPriority   []CategoryPriority `json:"category_priority"`
	TopImprovements    []Recommendation   `json:"top_improvements"`
	NormalizedMetadata Metadata           `json:"normalized_metadata"`
}

// RuleSummary 规则目录对外展示条目
type RuleSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Weight      int      `json:"weight"`
	Severity    Severity `json:"severity"`
}
