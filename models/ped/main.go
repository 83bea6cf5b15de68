package ped

import (
	"fmt"

	c "clinfilter/api/models/constants"
	aff "clinfilter/api/models/constants/affected-status"
	s "clinfilter/api/models/constants/sex"
)

// Person is one pedigree member: their source VCF, sex and
// affected status as declared on the family's PED line
type Person struct {
	Id       string
	VcfPath  string
	Sex      c.Sex
	Affected c.AffectedStatus

	analysed bool
}

func (p *Person) IsMale() bool {
	return p.Sex == s.Male
}

func (p *Person) IsFemale() bool {
	return p.Sex == s.Female
}

func (p *Person) IsAffected() bool {
	return p.Affected == aff.Affected
}

func (p *Person) IsAnalysed() bool {
	return p.analysed
}

func (p *Person) SetAnalysed() {
	p.analysed = true
}

// Family aggregates exactly one mother, one father and one or more
// children. Sex and identity consistency are enforced as members are
// added; Child points at the proband currently under analysis.
type Family struct {
	Id string

	Mother   *Person
	Father   *Person
	Child    *Person
	Children []*Person
}

func NewFamily(id string) *Family {
	return &Family{Id: id}
}

// AddMother attaches the family's mother. Re-adding the same person is
// a no-op; a conflicting ID, or a non-female sex code, is a validation
// failure.
func (f *Family) AddMother(id string, vcfPath string, affected string, sexCode string) error {
	parsedSex := s.Parse(sexCode)
	if parsedSex != s.Female {
		return fmt.Errorf("the mother of family %s is listed as non-female (%s)", f.Id, sexCode)
	}

	if f.Mother != nil {
		if f.Mother.Id != id {
			return fmt.Errorf("family %s already has a mother with a different ID (%s != %s)", f.Id, f.Mother.Id, id)
		}
		return nil
	}

	f.Mother = &Person{
		Id:       id,
		VcfPath:  vcfPath,
		Sex:      parsedSex,
		Affected: aff.Parse(affected),
	}
	return nil
}

// AddFather attaches the family's father, with the mirrored checks
func (f *Family) AddFather(id string, vcfPath string, affected string, sexCode string) error {
	parsedSex := s.Parse(sexCode)
	if parsedSex != s.Male {
		return fmt.Errorf("the father of family %s is listed as non-male (%s)", f.Id, sexCode)
	}

	if f.Father != nil {
		if f.Father.Id != id {
			return fmt.Errorf("family %s already has a father with a different ID (%s != %s)", f.Id, f.Father.Id, id)
		}
		return nil
	}

	f.Father = &Person{
		Id:       id,
		VcfPath:  vcfPath,
		Sex:      parsedSex,
		Affected: aff.Parse(affected),
	}
	return nil
}

func (f *Family) AddChild(id string, vcfPath string, affected string, sexCode string) {
	f.Children = append(f.Children, &Person{
		Id:       id,
		VcfPath:  vcfPath,
		Sex:      s.Parse(sexCode),
		Affected: aff.Parse(affected),
	})
}

// SetChild points Child at the next not-yet-analysed child, if any
func (f *Family) SetChild() {
	for _, child := range f.Children {
		if !child.IsAnalysed() {
			f.Child = child
			return
		}
	}
	f.Child = nil
}

// SetChildExamined marks the current child analysed and advances to
// the next unexamined one (nil once every child has been analysed)
func (f *Family) SetChildExamined() {
	if f.Child != nil {
		f.Child.SetAnalysed()
	}
	f.SetChild()
}

func (f *Family) MotherAffected() bool {
	return f.Mother != nil && f.Mother.IsAffected()
}

func (f *Family) FatherAffected() bool {
	return f.Father != nil && f.Father.IsAffected()
}

func (f *Family) HasParents() bool {
	return f.Mother != nil || f.Father != nil
}
