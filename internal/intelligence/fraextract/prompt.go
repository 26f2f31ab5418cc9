package fraextract

// ExtractionPrompt instructs the model how to read a state-wise FRA progress
// table.
const ExtractionPrompt = `You are an expert at extracting Forest Rights Act (FRA) data from government PDF documents.

CRITICAL INSTRUCTIONS:
1. Extract data from ALL STATES in the table. The document usually lists 20 or more states.
2. Look for the state-wise table with columns "States/UT", "No. of Claims received", "No. of Titles Distributed" and "Extent of Forest land".
3. For each state row, extract every numerical value.
4. Convert "NA/NR", "NA", "NR" or similar markers to null, never to 0.
5. EXCLUDE the "TOTAL" row. Only extract individual state rows.
6. Write numbers without separators ("1,23,456" becomes 123456).
7. Write state names in proper case, e.g. "Andhra Pradesh", "Chhattisgarh", "Madhya Pradesh".

The table usually has the columns:
S.No. | States/UT | Individual Claims | Community Claims | Total Claims | Individual Titles | Community Titles | Total Titles | Individual Area | Community Area | Total Area

Extract the report date (DD.MM.YYYY), year and month from the document header when available.

Return every state as a separate object in the statesData array.`

//Personal.AI order the ending
