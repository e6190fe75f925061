package inventory

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestSortPosition_FIFO(t *testing.T) {
	g := NewGomegaWithT(t)

	tx1 := trade("1", "2016-01-01", "100")
	tx2 := trade("2", "2016-01-02", "200")
	position := Position{lot(tx2, "200", "11"), lot(tx1, "100", "10")}

	sorted := sortPosition(position, FIFO)
	g.Expect(sorted[0].OpenTransaction.core().UniqueID).To(Equal("1"))
	g.Expect(sorted[1].OpenTransaction.core().UniqueID).To(Equal("2"))
}

func TestSortPosition_LIFO(t *testing.T) {
	g := NewGomegaWithT(t)

	tx1 := trade("1", "2016-01-01", "100")
	tx2 := trade("2", "2016-01-02", "200")
	position := Position{lot(tx1, "100", "10"), lot(tx2, "200", "11")}

	sorted := sortPosition(position, LIFO)
	g.Expect(sorted[0].OpenTransaction.core().UniqueID).To(Equal("2"))
	g.Expect(sorted[1].OpenTransaction.core().UniqueID).To(Equal("1"))
}

func TestSortPosition_MinGainClosesHighestCostFirst(t *testing.T) {
	g := NewGomegaWithT(t)

	tx1 := trade("1", "2016-01-01", "100")
	tx2 := trade("2", "2016-01-02", "200")
	position := Position{lot(tx1, "100", "10"), lot(tx2, "200", "15")}

	sorted := sortPosition(position, MinGain)
	g.Expect(sorted[0].Price).To(Equal(dec("15")))
	g.Expect(sorted[1].Price).To(Equal(dec("10")))
}

func TestSortPosition_MaxGainClosesLowestCostFirst(t *testing.T) {
	g := NewGomegaWithT(t)

	tx1 := trade("1", "2016-01-01", "100")
	tx2 := trade("2", "2016-01-02", "200")
	position := Position{lot(tx2, "200", "15"), lot(tx1, "100", "10")}

	sorted := sortPosition(position, MaxGain)
	g.Expect(sorted[0].Price).To(Equal(dec("10")))
	g.Expect(sorted[1].Price).To(Equal(dec("15")))
}

func TestOpenAsOf(t *testing.T) {
	g := NewGomegaWithT(t)

	tx1 := trade("1", "2016-01-01", "100")
	l := lot(tx1, "100", "10")

	g.Expect(OpenAsOf(mustTime("2016-01-01"))(l)).To(BeTrue())
	g.Expect(OpenAsOf(mustTime("2015-12-31"))(l)).To(BeFalse())
}

func TestLongAsOf(t *testing.T) {
	g := NewGomegaWithT(t)

	tx1 := trade("1", "2016-01-01", "100")
	long := lot(tx1, "100", "10")
	short := lot(tx1, "-100", "10")

	g.Expect(LongAsOf(mustTime("2016-01-02"))(long)).To(BeTrue())
	g.Expect(LongAsOf(mustTime("2016-01-02"))(short)).To(BeFalse())
}

func TestClosableBy(t *testing.T) {
	g := NewGomegaWithT(t)

	tx1 := trade("1", "2016-01-01", "100")
	long := lot(tx1, "100", "10")

	// selling (negative units) can close a long lot
	g.Expect(ClosableBy(mustTime("2016-01-02"), dec("-50"))(long)).To(BeTrue())
	// buying more (positive units) doesn't close a long lot
	g.Expect(ClosableBy(mustTime("2016-01-02"), dec("50"))(long)).To(BeFalse())
}
