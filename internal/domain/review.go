package domain

import (
	"math"
	"sort"
	"time"
)

// Review is an append-only product review. Rating is a pointer because
// records fetched from the backend may lack one.
type Review struct {
	ID           int       `json:"id"`
	ProductID    int       `json:"product_id"`
	CustomerName string    `json:"customer_name"`
	Rating       *float64  `json:"rating,omitempty"`
	Title        string    `json:"title,omitempty"`
	Comment      string    `json:"comment"`
	Date         time.Time `json:"date"`
	Helpful      int       `json:"helpful"`
	Verified     bool      `json:"verified"`
}

// StarBucket is one row of the star distribution.
type StarBucket struct {
	Star       int     `json:"star"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// AverageRating returns the mean rating rounded to one decimal, 0 with no
// reviews. A missing rating contributes 0 to the sum but still counts in
// the denominator.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		if r.Rating != nil {
			sum += *r.Rating
		}
	}
	return math.Round(sum/float64(len(reviews))*10) / 10
}

// StarDistribution returns buckets for stars 5 down to 1: the count of
// reviews whose rating floors to that star and the percentage of all
// reviews. Missing ratings are excluded from the counts.
func StarDistribution(reviews []Review) []StarBucket {
	buckets := make([]StarBucket, 0, 5)
	total := len(reviews)
	for star := 5; star >= 1; star-- {
		count := 0
		for _, r := range reviews {
			if r.Rating != nil && int(math.Floor(*r.Rating)) == star {
				count++
			}
		}
		b := StarBucket{Star: star, Count: count}
		if total > 0 {
			b.Percentage = math.Round(float64(count)/float64(total)*1000) / 10
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// SortReviewsByDateDesc orders reviews newest first, in place.
func SortReviewsByDateDesc(reviews []Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].Date.After(reviews[j].Date)
	})
}
