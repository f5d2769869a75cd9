/*
 * @module service/evaluation/normalizer_test
 * @description 元数据规范化器测试：类型吸收、空值折叠、日期规范化与幂等性
 * @architecture 测试层
 * @documentReference ai_docs/metadata_quality_req.md
 * @stateFlow 构造输入 -> 规范化 -> 结果断言
 * @rules 覆盖非对象输入、空字符串/空数组折叠、日期改写与幂等性质
 * @dependencies testing, github.com/stretchr/testify
 * @refs normalizer.go
 */

package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeNonObjectInput(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
	}{
		{"nil输入", nil},
		{"字符串输入", "not an object"},
		{"数值输入", 42},
		{"数组输入", []interface{}{"a", "b"}},
		{"布尔输入", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := Normalize(tc.input)
			assert.NotNil(t, record)
			assert.Empty(t, record)
		})
	}
}

func TestNormalizeStringCollapse(t *testing.T) {
	record := Normalize(map[string]interface{}{
		"title":       "  测试数据集  ",
		"description": "   ",
		"publisher":   "",
		"empty":       nil,
	})

	assert.Equal(t, "测试数据集", record["title"])
	// 空字符串与缺失折叠为同一状态
	assert.NotContains(t, record, "description")
	assert.NotContains(t, record, "publisher")
	assert.NotContains(t, record, "empty")
}

func TestNormalizeFullWidthFolding(t *testing.T) {
	record := Normalize(map[string]interface{}{
		"version": "１.２.０",
	})

	assert.Equal(t, "1.2.0", record["version"])
}

func TestNormalizeArrayCollapse(t *testing.T) {
	record := Normalize(map[string]interface{}{
		"keywords": []interface{}{" 空气质量 ", "", "  ", nil, "PM2.5"},
		"authors":  []interface{}{"", "   "},
		"citations": []string{"Zhang 2023", " "},
	})

	assert.Equal(t, []interface{}{"空气质量", "PM2.5"}, record["keywords"])
	// 清洗后为空的数组字段折叠为缺失
	assert.NotContains(t, record, "authors")
	assert.Equal(t, []interface{}{"Zhang 2023"}, record["citations"])
}

func TestNormalizeDateCanonicalization(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"已是规范形式", "2023-06-01", "2023-06-01"},
		{"斜杠分隔", "2023/06/01", "2023-06-01"},
		{"紧凑形式", "20230601", "2023-06-01"},
		{"中文日期", "2023年06月01日", "2023-06-01"},
		{"RFC3339", "2023-06-01T08:30:00Z", "2023-06-01"},
		{"无法解析时原样保留", "不是日期", "不是日期"},
		{"非法日期原样保留", "2023-13-45", "2023-13-45"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := Normalize(map[string]interface{}{
				"publication_date": tc.input,
			})
			assert.Equal(t, tc.expected, record["publication_date"])
		})
	}
}

func TestNormalizeNestedObject(t *testing.T) {
	record := Normalize(map[string]interface{}{
		"temporal_coverage": map[string]interface{}{
			"start": " 2020-01-01 ",
			"end":   "",
		},
		"empty_nested": map[string]interface{}{
			"value": "   ",
		},
	})

	coverage, ok := record["temporal_coverage"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "2020-01-01", coverage["start"])
	assert.NotContains(t, coverage, "end")
	assert.NotContains(t, record, "empty_nested")
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	input := map[string]interface{}{
		"title":    "  原始标题  ",
		"keywords": []interface{}{" a ", ""},
	}

	Normalize(input)

	assert.Equal(t, "  原始标题  ", input["title"])
	assert.Equal(t, []interface{}{" a ", ""}, input["keywords"])
}

func TestNormalizeIdempotent(t *testing.T) {
	input := map[string]interface{}{
		"title":            "  测试数据集  ",
		"keywords":         []interface{}{" 空气质量 ", "", "PM2.5"},
		"publication_date": "2023/06/01",
		"temporal_coverage": map[string]interface{}{
			"start": " 2020-01-01 ",
		},
		"row_count": 1000,
	}

	once := Normalize(input)
	twice := Normalize(once)

	assert.Equal(t, once, twice)
}

func TestNormalizeScalarPassthrough(t *testing.T) {
	record := Normalize(map[string]interface{}{
		"row_count": 1000,
		"verified":  true,
		"version":   2.1,
	})

	assert.Equal(t, 1000, record["row_count"])
	assert.Equal(t, true, record["verified"])
	assert.Equal(t, 2.1, record["version"])
}
