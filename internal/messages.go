package gallery

import (
	"strings"

	"golang.org/x/text/language"
)

// Messages holds the user-facing page messages of one UI language.
type Messages struct {
	FetchFailed     string
	NoCategories    string
	MissingCategory string
	EmptyCategory   string
	InvalidID       string
	OutOfRange      string
	ViewOnWeibo     string
	DownloadRaw     string
}

var catalogs = map[string]Messages{
	"zh": {
		FetchFailed:     "数据加载失败，请稍后重试。",
		NoCategories:    "暂无分类。",
		MissingCategory: "未指定分类。",
		EmptyCategory:   "该分类下暂无图片。",
		InvalidID:       "无效的图片编号。",
		OutOfRange:      "图片编号超出范围。",
		ViewOnWeibo:     "在微博查看",
		DownloadRaw:     "下载原图",
	},
	"en": {
		FetchFailed:     "Failed to load data, please try again later.",
		NoCategories:    "No categories yet.",
		MissingCategory: "No category specified.",
		EmptyCategory:   "No images in this category.",
		InvalidID:       "Invalid image id.",
		OutOfRange:      "Image id is out of range.",
		ViewOnWeibo:     "View on Weibo",
		DownloadRaw:     "Download original",
	},
}

// DefaultLanguage is the UI language used when none or an unknown one is configured.
const DefaultLanguage = "zh"

var (
	supported = []string{"zh", "en"}
	matcher   = language.NewMatcher([]language.Tag{language.Chinese, language.English})
)

// MatchLanguage maps a BCP 47 tag such as "zh-CN" or "en_US" to a supported
// language, falling back to DefaultLanguage.
func MatchLanguage(lang string) string {
	lang = strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if lang == "" {
		return DefaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return DefaultLanguage
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return DefaultLanguage
	}
	return supported[idx]
}

// MessagesFor returns the message catalog of lang.
func MessagesFor(lang string) Messages {
	return catalogs[MatchLanguage(lang)]
}

// Languages returns the supported UI languages.
func Languages() []string {
	return append([]string(nil), supported...)
}
