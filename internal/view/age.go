package view

import (
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/duration"
)

// ToAge renders the time elapsed between created and now the way kubectl
// prints the AGE column. A missing timestamp yields "".
func ToAge(created *metav1.Time, now time.Time) string {
	if created == nil || created.IsZero() {
		return ""
	}
	return duration.HumanDuration(now.Sub(created.Time))
}
