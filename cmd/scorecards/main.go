// Command scorecards generates city scorecard reports from the study data and
// the report configuration workbook.
//
// Usage:
//
//	scorecards --cities "Graz,Ghent" --language English --templates web
//	scorecards --auto_language --generate_resources
//	scorecards validate --configuration _report_configuration.xlsx
//	scorecards fixtures --dir demo
package main

func main() {
	Execute()
}
