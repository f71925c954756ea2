package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paiban/roster/pkg/model"
)

const testScenario = `{
  "id": "n002w4",
  "numberOfWeeks": 4,
  "skills": ["HeadNurse", "Nurse"],
  "shiftTypes": [
    {"id": "Early", "minimumNumberOfConsecutiveAssignments": 2, "maximumNumberOfConsecutiveAssignments": 5},
    {"id": "Late", "minimumNumberOfConsecutiveAssignments": 2, "maximumNumberOfConsecutiveAssignments": 4}
  ],
  "forbiddenShiftTypeSuccessions": [
    {"precedingShiftType": "Late", "succeedingShiftTypes": ["Early"]}
  ],
  "contracts": [
    {"id": "FullTime",
     "minimumNumberOfAssignments": 15, "maximumNumberOfAssignments": 22,
     "minimumNumberOfConsecutiveWorkingDays": 3, "maximumNumberOfConsecutiveWorkingDays": 5,
     "minimumNumberOfConsecutiveDaysOff": 2, "maximumNumberOfConsecutiveDaysOff": 3,
     "maximumNumberOfWorkingWeekends": 2, "completeWeekends": 1}
  ],
  "nurses": [
    {"id": "Patrick", "contract": "FullTime", "skills": ["HeadNurse", "Nurse"]},
    {"id": "Andrea", "contract": "FullTime", "skills": ["Nurse"]}
  ]
}`

const testHistory = `{
  "week": 0,
  "scenario": "n002w4",
  "nurseHistory": [
    {"nurse": "Patrick", "numberOfAssignments": 0, "numberOfWorkingWeekends": 0,
     "lastAssignedShiftType": "Late", "numberOfConsecutiveAssignments": 2,
     "numberOfConsecutiveWorkingDays": 2, "numberOfConsecutiveDaysOff": 0},
    {"nurse": "Andrea", "numberOfAssignments": 0, "numberOfWorkingWeekends": 0,
     "lastAssignedShiftType": "None", "numberOfConsecutiveAssignments": 0,
     "numberOfConsecutiveWorkingDays": 0, "numberOfConsecutiveDaysOff": 2}
  ]
}`

const testWeek = `{
  "scenario": "n002w4",
  "requirements": [
    {"shiftType": "Early", "skill": "Nurse",
     "requirementOnMonday": {"minimum": 1, "optimal": 1},
     "requirementOnTuesday": {"minimum": 1, "optimal": 2},
     "requirementOnWednesday": {"minimum": 0, "optimal": 1},
     "requirementOnThursday": {"minimum": 0, "optimal": 0},
     "requirementOnFriday": {"minimum": 1, "optimal": 1},
     "requirementOnSaturday": {"minimum": 0, "optimal": 1},
     "requirementOnSunday": {"minimum": 0, "optimal": 0}}
  ],
  "shiftOffRequests": [
    {"nurse": "Patrick", "shiftType": "Early", "day": "Tue"},
    {"nurse": "Andrea", "shiftType": "Any", "day": "Sat"}
  ]
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sce, names, err := LoadScenario(writeTemp(t, "sce.json", testScenario))
	if err != nil {
		t.Fatalf("LoadScenario() 失败: %v", err)
	}

	if sce.TotalWeekNum != 4 || sce.NurseNum != 2 || sce.ShiftTypeNum != 2 || sce.SkillTypeNum != 2 {
		t.Errorf("规模字段错误: %+v", sce)
	}
	late := names.ShiftMap["Late"]
	early := names.ShiftMap["Early"]
	if sce.Shifts[late].LegalNextShifts[early] {
		t.Error("Late 之后不应允许 Early")
	}
	if !sce.Shifts[early].LegalNextShifts[late] {
		t.Error("Early 之后应允许 Late")
	}
	if !sce.Contracts[0].CompleteWeekend {
		t.Error("completeWeekends 应为真")
	}
	andrea := names.NurseMap["Andrea"]
	if sce.Nurses[andrea].HasSkill(names.SkillMap["HeadNurse"]) {
		t.Error("Andrea 不应有 HeadNurse 技能")
	}
}

func TestLoadHistory(t *testing.T) {
	sce, names, err := LoadScenario(writeTemp(t, "sce.json", testScenario))
	if err != nil {
		t.Fatal(err)
	}
	h, err := LoadHistory(writeTemp(t, "his.json", testHistory), names, sce.NurseNum)
	if err != nil {
		t.Fatalf("LoadHistory() 失败: %v", err)
	}
	if h.CurrentWeek != 1 || h.PastWeekCount != 0 {
		t.Errorf("周计数 = (%d,%d)", h.CurrentWeek, h.PastWeekCount)
	}
	patrick := names.NurseMap["Patrick"]
	if h.LastShifts[patrick] != names.ShiftMap["Late"] || h.ConsecutiveShiftNums[patrick] != 2 {
		t.Error("Patrick 的历史字段错误")
	}
	andrea := names.NurseMap["Andrea"]
	if h.LastShifts[andrea] != model.ShiftNone || h.ConsecutiveDayoffNums[andrea] != 2 {
		t.Error("Andrea 的历史字段错误")
	}
}

func TestLoadWeekData(t *testing.T) {
	sce, names, err := LoadScenario(writeTemp(t, "sce.json", testScenario))
	if err != nil {
		t.Fatal(err)
	}
	wd, err := LoadWeekData(writeTemp(t, "wd.json", testWeek), sce, names)
	if err != nil {
		t.Fatalf("LoadWeekData() 失败: %v", err)
	}

	early := names.ShiftMap["Early"]
	nurseSkill := names.SkillMap["Nurse"]
	if wd.MinNurseNums[model.WeekdayMon][early][nurseSkill] != 1 ||
		wd.OptNurseNums[model.WeekdayTue][early][nurseSkill] != 2 {
		t.Error("需求数量解析错误")
	}
	patrick := names.NurseMap["Patrick"]
	if !wd.ShiftOffs[model.WeekdayTue][early][patrick] {
		t.Error("Patrick 的具体休班申请未生效")
	}
	// Any 申请应展开到全部班次
	andrea := names.NurseMap["Andrea"]
	for shift := 0; shift < sce.ShiftTypeNum; shift++ {
		if !wd.ShiftOffs[model.WeekdaySat][shift][andrea] {
			t.Errorf("Andrea 的通配休班申请未展开到班次 %d", shift)
		}
	}
}

func TestLoadScenario_文件损坏(t *testing.T) {
	if _, _, err := LoadScenario(writeTemp(t, "bad.json", "{broken")); err == nil {
		t.Error("损坏的场景文件应报错")
	}
	if _, _, err := LoadScenario(filepath.Join(t.TempDir(), "不存在.json")); err == nil {
		t.Error("不存在的文件应报错")
	}
}

func TestWriteSolution与状态快照(t *testing.T) {
	scePath := writeTemp(t, "sce.json", testScenario)
	hisPath := writeTemp(t, "his.json", testHistory)
	weekPath := writeTemp(t, "wd.json", testWeek)
	p, err := LoadProblem(scePath, hisPath, weekPath, "")
	if err != nil {
		t.Fatalf("LoadProblem() 失败: %v", err)
	}

	assign := model.NewAssign(p.Scenario.NurseNum)
	assign[0][model.WeekdayMon] = model.SingleAssign{Shift: 0, Skill: 1}

	dir := t.TempDir()
	solPath := filepath.Join(dir, "sol.json")
	if err := WriteSolution(solPath, p, assign); err != nil {
		t.Fatalf("WriteSolution() 失败: %v", err)
	}
	data, err := os.ReadFile(solPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("解文件为空")
	}

	// 状态快照往返
	cusPath := filepath.Join(dir, "cus.json")
	if err := WriteCustomOutput(cusPath, "n002w4", p.History); err != nil {
		t.Fatalf("WriteCustomOutput() 失败: %v", err)
	}
	h, err := LoadCustomInput(cusPath)
	if err != nil {
		t.Fatalf("LoadCustomInput() 失败: %v", err)
	}
	if h.CurrentWeek != p.History.CurrentWeek ||
		h.ConsecutiveDayoffNums[1] != p.History.ConsecutiveDayoffNums[1] {
		t.Error("状态快照往返后字段不一致")
	}
}
