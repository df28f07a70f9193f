package main

import (
	"fmt"
	"math/rand"

	"github.com/liangxing/matchsite/backend/directory"
)

var (
	surnames     = []string{"王", "李", "张", "刘", "陈", "杨", "黄", "赵", "吴", "周", "徐", "孙", "林", "郭"}
	femaleGiven  = []string{"婷", "静", "雪", "丹", "琳", "慧", "颖", "倩", "悦", "萱"}
	maleGiven    = []string{"伟", "强", "磊", "军", "杰", "涛", "斌", "浩", "宇", "鹏"}
	occupations  = []string{"会计", "律师", "医生", "教师", "软件工程师", "产品经理", "建筑师", "公务员", "销售经理", "摄影师", "设计师", "护士"}
	temperaments = []string{"性格温和", "开朗大方", "成熟稳重", "乐观向上", "细心体贴", "幽默风趣"}
	hobbies      = []string{"旅行", "阅读", "健身", "烹饪", "摄影", "音乐", "徒步", "电影"}
)

// generateMembers builds n plausible members with ids from firstID. Images
// are borrowed from the seed members of the same gender.
func generateMembers(r *rand.Rand, firstID, n int, seed []directory.Candidate) []directory.Candidate {
	images := map[directory.Gender][]string{}
	for _, m := range seed {
		images[m.Gender] = append(images[m.Gender], m.ImageURL)
	}

	out := make([]directory.Candidate, 0, n)
	for i := 0; i < n; i++ {
		gender := directory.Female
		given := femaleGiven
		height := 155 + r.Intn(21)
		if r.Intn(2) == 1 {
			gender = directory.Male
			given = maleGiven
			height = 165 + r.Intn(26)
		}

		c := directory.Candidate{
			ID:         firstID + i,
			Name:       pick(r, surnames) + pick(r, given),
			Age:        22 + r.Intn(24),
			Height:     height,
			Education:  pick(r, directory.Educations),
			Occupation: pick(r, occupations),
			Income:     pick(r, directory.Incomes),
			Location:   pick(r, directory.Locations),
			Gender:     gender,
		}
		c.Description = fmt.Sprintf("%s，喜欢%s和%s，希望找到一位真诚、有责任感的%s。",
			pick(r, temperaments), pick(r, hobbies), pick(r, hobbies), opposite(gender).Label())
		if imgs := images[gender]; len(imgs) > 0 {
			c.ImageURL = imgs[i%len(imgs)]
		}
		out = append(out, c)
	}
	return out
}

func pick(r *rand.Rand, options []string) string {
	return options[r.Intn(len(options))]
}

func opposite(g directory.Gender) directory.Gender {
	if g == directory.Male {
		return directory.Female
	}
	return directory.Male
}
