package sentiment

import (
	"sort"
	"strings"
)

const (
	DefaultMaxTags = 5
	MaxTags        = 20
)

type topic struct {
	name     string
	keywords []string
}

// topics are checked in table order; that order breaks ties.
var topics = []topic{
	{name: "রাজনীতি", keywords: []string{"রাজনীতি", "নির্বাচন", "সংসদ", "দল", "ভোট"}},
	{name: "অর্থনীতি", keywords: []string{"অর্থনীতি", "বাজেট", "বিনিয়োগ", "ব্যাংক", "মুদ্রাস্ফীতি"}},
	{name: "সরকার", keywords: []string{"সরকার", "মন্ত্রী", "মন্ত্রণালয়", "প্রধানমন্ত্রী"}},
	{name: "উন্নয়ন", keywords: []string{"উন্নয়ন", "প্রকল্প", "অবকাঠামো"}},
	{name: "খেলা", keywords: []string{"খেলা", "ক্রিকেট", "ফুটবল", "ম্যাচ"}},
	{name: "শিক্ষা", keywords: []string{"শিক্ষা", "বিশ্ববিদ্যালয়", "পরীক্ষা", "শিক্ষার্থী"}},
	{name: "স্বাস্থ্য", keywords: []string{"স্বাস্থ্য", "হাসপাতাল", "চিকিৎসা", "রোগ"}},
	{name: "আইন-আদালত", keywords: []string{"আইন", "আদালত", "মামলা", "পুলিশ"}},
	{name: "প্রযুক্তি", keywords: []string{"প্রযুক্তি", "ইন্টারনেট", "মোবাইল", "ডিজিটাল"}},
	{name: "আন্তর্জাতিক", keywords: []string{"আন্তর্জাতিক", "বিশ্ব", "জাতিসংঘ"}},
	{name: "বিনোদন", keywords: []string{"বিনোদন", "চলচ্চিত্র", "সিনেমা", "গান"}},
	{name: "কৃষি", keywords: []string{"কৃষি", "কৃষক", "ফসল", "ধান"}},
}

// Tags picks topic names whose keywords occur in text, most frequent first.
func Tags(text string, maxTags int) []string {
	if maxTags <= 0 {
		maxTags = DefaultMaxTags
	}
	if maxTags > MaxTags {
		maxTags = MaxTags
	}
	type hit struct {
		name  string
		count int
		order int
	}
	var hits []hit
	for i, t := range topics {
		count := 0
		for _, kw := range t.keywords {
			count += strings.Count(text, kw)
		}
		if count > 0 {
			hits = append(hits, hit{name: t.name, count: count, order: i})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].count != hits[j].count {
			return hits[i].count > hits[j].count
		}
		return hits[i].order < hits[j].order
	})
	if len(hits) > maxTags {
		hits = hits[:maxTags]
	}
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.name)
	}
	return out
}
