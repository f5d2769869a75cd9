/*
 * @module service/estimator
 * @description 启发式质量预估器，基于文本统计特征快速预测元数据质量分数
 * @architecture 分层架构 - 领域服务层, 独立于规则评估核心
 * @documentReference ai_docs/estimator_design.md
 * @stateFlow 规范化记录 -> 文本统计特征提取 -> 加权打分 -> 预估结果
 * @rules 仅作参考预估, 不参与规则评分; 调用方可自行决定是否与规则分数混合
 * @dependencies github.com/spf13/cast, service/evaluation
 * @refs service/evaluation/engine.go
 */

package estimator

import (
	"math"
	"strings"
	"unicode"

	"metadata-quality-service/service/evaluation"

	"github.com/spf13/cast"
)

// coreFields 参与覆盖率统计的核心字段
var coreFields = []string{
	"title", "description", "authors", "publisher", "identifier",
	"version", "keywords", "license", "publication_date", "access_url",
	"methodology", "source", "temporal_coverage", "spatial_coverage",
}

// Features 预估使用的文本统计特征
type Features struct {
	FieldCoverage   float64 `json:"field_coverage"`   // 核心字段覆盖率 0-1
	TextVolume      float64 `json:"text_volume"`      // 文本总量饱和值 0-1
	TermVariety     float64 `json:"term_variety"`     // 词汇多样性 0-1
	StructureDepth  float64 `json:"structure_depth"`  // 结构化字段占比 0-1
	DescriptionSize int     `json:"description_size"` // 描述字段字符数
}

// Estimate 预估结果
type Estimate struct {
	PredictedScore int     `json:"predicted_score"` // 预估分数 0-100
	Confidence     float64 `json:"confidence"`      // 置信度 0-1
	Features       Features `json:"features"`
}

// Estimator 启发式质量预估器
type Estimator struct {
	coverageWeight  float64
	volumeWeight    float64
	varietyWeight   float64
	structureWeight float64
}

// NewEstimator 创建默认权重的预估器
func NewEstimator() *Estimator {
	return &Estimator{
		coverageWeight:  0.45,
		volumeWeight:    0.25,
		varietyWeight:   0.20,
		structureWeight: 0.10,
	}
}

// Estimate 对任意输入做快速质量预估
// 输入先经过与规则评估相同的规范化, 非对象输入得到零分预估
func (e *Estimator) Estimate(raw interface{}) *Estimate {
	record := evaluation.Normalize(raw)
	if len(record) == 0 {
		return &Estimate{PredictedScore: 0, Confidence: 1.0}
	}

	features := extractFeatures(record)

	weighted := features.FieldCoverage*e.coverageWeight +
		features.TextVolume*e.volumeWeight +
		features.TermVariety*e.varietyWeight +
		features.StructureDepth*e.structureWeight

	score := int(math.Round(weighted * 100))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return &Estimate{
		PredictedScore: score,
		Confidence:     confidence(features),
		Features:       features,
	}
}

// extractFeatures 从规范化记录中提取文本统计特征
func extractFeatures(record evaluation.Metadata) Features {
	var features Features

	covered := 0
	for _, field := range coreFields {
		if _, ok := record[field]; ok {
			covered++
		}
	}
	features.FieldCoverage = float64(covered) / float64(len(coreFields))

	allText := collectText(record)
	totalRunes := 0
	for _, text := range allText {
		totalRunes += len([]rune(text))
	}
	// 800字符左右饱和
	features.TextVolume = saturate(float64(totalRunes), 800)

	features.TermVariety = termVariety(allText)
	features.StructureDepth = structureDepth(record)

	if desc := cast.ToString(record["description"]); desc != "" {
		features.DescriptionSize = len([]rune(desc))
	}

	return features
}

// collectText 收集记录中所有字符串值, 含数组与嵌套对象
func collectText(value interface{}) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []interface{}:
		var texts []string
		for _, elem := range v {
			texts = append(texts, collectText(elem)...)
		}
		return texts
	case map[string]interface{}:
		var texts []string
		for _, elem := range v {
			texts = append(texts, collectText(elem)...)
		}
		return texts
	case evaluation.Metadata:
		return collectText(map[string]interface{}(v))
	default:
		return nil
	}
}

// termVariety 计算词汇多样性: 去重词项数与总词项数之比
// 中文等无空格文本按单字切分
func termVariety(texts []string) float64 {
	seen := make(map[string]struct{})
	total := 0

	for _, text := range texts {
		for _, term := range tokenize(text) {
			total++
			seen[strings.ToLower(term)] = struct{}{}
		}
	}

	if total == 0 {
		return 0
	}
	return float64(len(seen)) / float64(total)
}

// tokenize 切分词项: 拉丁词按空白与标点, CJK按单字
func tokenize(text string) []string {
	var terms []string
	var latin strings.Builder

	flush := func() {
		if latin.Len() > 0 {
			terms = append(terms, latin.String())
			latin.Reset()
		}
	}

	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			flush()
			terms = append(terms, string(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			latin.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	return terms
}

// structureDepth 计算结构化字段(数组/对象)占全部字段的比例
func structureDepth(record evaluation.Metadata) float64 {
	if len(record) == 0 {
		return 0
	}

	structured := 0
	for _, value := range record {
		switch value.(type) {
		case []interface{}, map[string]interface{}, evaluation.Metadata:
			structured++
		}
	}
	return float64(structured) / float64(len(record))
}

// saturate 饱和曲线: x达到limit时趋近1, 超出不再增长
func saturate(x, limit float64) float64 {
	if x <= 0 {
		return 0
	}
	v := x / limit
	if v > 1 {
		return 1
	}
	return v
}

// confidence 根据特征充分程度给出置信度
// 覆盖率与文本量越高, 预估越可靠
func confidence(features Features) float64 {
	c := 0.4 + 0.4*features.FieldCoverage + 0.2*features.TextVolume
	if c > 1 {
		return 1
	}
	return c
}
