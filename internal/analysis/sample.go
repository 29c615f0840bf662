package analysis

// SampleDocument is the built-in mutual NDA offered as a demo intake source.
const SampleDocument = `MUTUAL NON-DISCLOSURE AGREEMENT

This Mutual Non-Disclosure Agreement ("Agreement") is made and entered into as of October 26, 2023 ("Effective Date"), by and between:

Party A: Innovate Corp, a Delaware corporation with its principal place of business at 123 Innovation Drive, Techville, CA 94000 ("Innovate").

Party B: Solutions Inc, a California corporation with its principal place of business at 456 Solution Avenue, Code City, CA 94111 ("Solutions").

Hereinafter referred to collectively as the "Parties."

1.  Purpose. The Parties wish to explore a potential business relationship (the "Purpose") and in connection with this Purpose, each Party may disclose to the other certain confidential technical and business information which the disclosing Party desires the receiving Party to treat as confidential.

2.  Confidential Information. "Confidential Information" means any information disclosed by one Party to the other Party, either directly or indirectly, in writing, orally, or by inspection of tangible objects, which is designated as "Confidential," "Proprietary," or some similar designation. Information communicated orally shall be considered Confidential Information if such information is confirmed in writing as being Confidential Information within a reasonable time after the initial disclosure. Confidential Information may also include information disclosed to a disclosing Party by third parties. For the purposes of this Agreement, Confidential Information shall not include information that:
    (a) was publicly known and made generally available in the public domain prior to the time of disclosure by the disclosing Party;
    (b) becomes publicly known and made generally available after disclosure by the disclosing Party to the receiving Party through no action or inaction of the receiving Party;
    (c) is already in the possession of the receiving Party at the time of disclosure by the disclosing Party as shown by the receiving Party's files and records immediately prior to the time of disclosure;
    (d) is obtained by the receiving Party from a third party without a breach of such third party's obligations of confidentiality;
    (e) is independently developed by the receiving Party without use of or reference to the disclosing Party's Confidential Information, as shown by documents and other competent evidence in the receiving Party's possession.

3.  Non-use and Non-disclosure. Each Party agrees not to use any Confidential Information of the other Party for any purpose except to evaluate and engage in discussions concerning the Purpose. Each Party agrees not to disclose any Confidential Information of the other Party to third parties or to such Party's employees, except to those employees who are required to have the information in order to evaluate or engage in discussions concerning the Purpose. Neither Party shall reverse engineer, disassemble, or decompile any prototypes, software, or other tangible objects which embody the other Party's Confidential Information.

4.  Maintenance of Confidentiality. Each Party agrees that it shall take reasonable measures to protect the secrecy of and avoid disclosure and unauthorized use of the Confidential Information of the other Party. Without limiting the foregoing, each Party shall take at least those measures that it takes to protect its own most highly confidential information and shall ensure that its employees who have access to Confidential Information of another Party have signed a non-use and non-disclosure agreement in content similar to the provisions hereof, prior to any disclosure of Confidential Information to such employees.

5.  Return of Materials. All documents and other tangible objects containing or representing Confidential Information which have been disclosed by one Party to the other Party, and all copies thereof which are in the possession of the other Party, shall be and remain the property of the disclosing Party and shall be promptly returned to the disclosing Party upon the disclosing Party's request.

6.  Term. The obligations of each receiving Party hereunder shall survive for a period of five (5) years from the date of disclosure.

7.  No Obligation. Nothing in this Agreement shall obligate either Party to proceed with any transaction between them, and each Party reserves the right, in its sole discretion, to terminate the discussions contemplated by this Agreement concerning the business opportunity.

8.  Governing Law. This Agreement shall be governed by the laws of the State of California, without regard to the conflicts of laws provisions thereof.

9.  Dispute Resolution. Any disputes arising out of this Agreement shall be resolved through binding arbitration in San Francisco, California.

10. Entire Agreement. This Agreement contains the entire agreement between the Parties and supersedes any prior oral or written agreements or communications between the Parties.

IN WITNESS WHEREOF, the Parties have executed this Agreement as of the Effective Date.

Innovate Corp
Signature: _________________________
Name: _____________________________
Title: ____________________________

Solutions Inc
Signature: _________________________
Name: _____________________________
Title: ____________________________
`
